// Package probe answers "when was this file taken?" for timestamp mode.
//
// [EXIF] reads the capture time from JPEG and TIFF metadata. [Resolve]
// combines any [Source] with the filesystem modification time, so every file
// gets a timestamp and a [Tag] naming where it came from.
package probe
