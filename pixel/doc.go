// Package pixel implements the 16-bit RGB565 color and image types used by serial LCD panels.
//
// Colors and images are compatible with Go's native [color.Color] and [image.Image] /
// [draw.Image] interfaces. Pixel values are kept in host order; [Swap] converts a value to the
// byte order the panel expects on the wire.
package pixel
