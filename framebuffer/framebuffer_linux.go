package framebuffer

import (
	"os"
	"syscall"
	"unsafe"
)

const (
	// From <linux/fb.h>
	fbioGetVScreenInfo = 0x4600
	fbioGetFScreenInfo = 0x4602
)

// Open a Linux FrameBuffer device (fbdev) by name, typically /dev/fb[0..x].
func Open(name string) (*FrameBuffer, error) {
	f, err := os.OpenFile(name, os.O_RDWR, os.ModeDevice)
	if err != nil {
		return nil, err
	}

	var (
		fd         = f.Fd()
		info       linuxFixScreenInfo
		screenInfo linuxVarScreenInfo
	)
	if err = ioctl(fd, fbioGetFScreenInfo, unsafe.Pointer(&info)); err != nil {
		_ = f.Close()
		return nil, err
	}

	// Request virtual screen info.
	if err = ioctl(fd, fbioGetVScreenInfo, unsafe.Pointer(&screenInfo)); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err = checkFormat(screenInfo.BitsPerPixel, screenInfo.Red, screenInfo.Green, screenInfo.Blue, screenInfo.Alpha); err != nil {
		_ = f.Close()
		return nil, err
	}

	// Map pixel buffer.
	mem, err := syscall.Mmap(int(fd), 0, int(info.SmemLen), syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	fb, err := New(mem, int(screenInfo.Xres), int(screenInfo.Yres), int(info.LineLength))
	if err != nil {
		_ = syscall.Munmap(mem)
		_ = f.Close()
		return nil, err
	}
	fb.name = name
	fb.close = func() error {
		if err := syscall.Munmap(mem); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	}
	return fb, nil
}

func ioctl(fd, cmd uintptr, arg unsafe.Pointer) (err error) {
	if _, _, errno := syscall.Syscall(syscall.SYS_IOCTL, fd, cmd, uintptr(arg)); errno != 0 {
		return &os.SyscallError{
			Syscall: "SYS_IOCTL",
			Err:     errno,
		}
	}
	return nil
}

type linuxFixScreenInfo struct {
	ID         [16]byte  // Identification string eg "TT Builtin"
	SmemStart  uintptr   // Start of frame buffer mem
	SmemLen    uint32    // Length of frame buffer mem
	Type       uint32    // FB_TYPE_
	TypeAux    uint32    // Interleave for interleaved Planes
	Visual     uint32    // FB_VISUAL_
	Xpanstep   uint16    // Zero if no hardware panning
	Ypanstep   uint16    // Zero if no hardware panning
	Ywrapstep  uint16    // Zero if no hardware ywrap
	LineLength uint32    // Length of a line in bytes
	MmioStart  uintptr   // Start of Memory Mapped I/O (physical address)
	MmioLen    uint32    // Length of Memory Mapped I/O
	Accel      uint32    // Type of acceleration available
	Reserved   [3]uint16 // Reserved for future compatibility
}

// linuxVarScreenInfo contains device independent changeable information about a frame buffer device and a specific video mode.
type linuxVarScreenInfo struct {
	Xres                    uint32
	Yres                    uint32
	XresVirtual             uint32
	YresVirtual             uint32
	Xoffset                 uint32
	Yoffset                 uint32
	BitsPerPixel            uint32
	Grayscale               uint32
	Red, Green, Blue, Alpha bitField
	Nonstd                  uint32
	Activate                uint32
	Height                  uint32
	Width                   uint32
	AccelFlags              uint32
	Pixclock                uint32
	LeftMargin              uint32
	RightMargin             uint32
	UpperMargin             uint32
	LowerMargin             uint32
	HsyncLen                uint32
	VsyncLen                uint32
	Sync                    uint32
	Vmode                   uint32
	Rotate                  uint32
	Colorspace              uint32
	Reserved                [4]uint32
}
