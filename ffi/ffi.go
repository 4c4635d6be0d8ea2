// Command ffi is the archive engine's C ABI shim: it exposes the core
// reader and mutator operations as extern "C" entry points, built with
// `go build -buildmode=c-shared`, so a non-Go host (engine, scripting
// runtime, another language's FFI layer) can drive an archive without
// linking Go.
//
// Inputs are null-terminated C strings for paths and raw byte buffers for
// structured payloads. Outputs are length-prefixed heap buffers: a 4-byte
// little-endian length n followed by n payload bytes, plus a 1-byte boolean
// success flag for void-returning operations. A caller frees any buffer
// this package hands back via smn_free_ptr — the shim's own allocator owns
// the memory until then, and the caller must not assume any particular
// allocator behind it.
package main

/*
#include <stdint.h>
#include <stdlib.h>
*/
import "C"

import (
	"encoding/binary"
	"unsafe"

	"github.com/SummonTheCat/smn-archive/archive"
	"github.com/SummonTheCat/smn-archive/internal/form"
	"github.com/SummonTheCat/smn-archive/internal/logger"
	"github.com/SummonTheCat/smn-archive/internal/scalar"
)

// lengthPrefixed allocates a C buffer of 4+len(payload) bytes: a
// little-endian uint32 length header followed by payload. The returned
// pointer is owned by C until passed to smn_free_ptr.
func lengthPrefixed(payload []byte) *C.uint8_t {
	total := 4 + len(payload)
	cbuf := C.malloc(C.size_t(total))
	out := unsafe.Slice((*byte)(cbuf), total)
	binary.LittleEndian.PutUint32(out[:4], uint32(len(payload)))
	copy(out[4:], payload)
	return (*C.uint8_t)(cbuf)
}

func errBuf(err error) *C.uint8_t {
	return lengthPrefixed([]byte(err.Error()))
}

func okBuf(payload []byte) *C.uint8_t {
	return lengthPrefixed(payload)
}

func boolByte(ok bool) C.uint8_t {
	if ok {
		return 1
	}
	return 0
}

//export smn_free_ptr
func smn_free_ptr(ptr *C.uint8_t) {
	if ptr != nil {
		C.free(unsafe.Pointer(ptr))
	}
}

//export smn_write_archive_skeleton
func smn_write_archive_skeleton(path *C.char, archiveID C.uint8_t, versionMajor C.uint8_t, versionMinor C.uint8_t, description *C.char) C.uint8_t {
	info := archive.NewInfo(
		scalar.ArchiveID(archiveID),
		scalar.Version{Major: uint8(versionMajor), Minor: uint8(versionMinor)},
		scalar.StrLrg(C.GoString(description)),
	)
	if err := archive.WriteArchiveSkeleton(C.GoString(path), info); err != nil {
		logger.Warn("ffi write_archive_skeleton failed: %v", err)
		return boolByte(false)
	}
	return boolByte(true)
}

//export smn_write_archive_info
func smn_write_archive_info(path *C.char, archiveID C.uint8_t, versionMajor C.uint8_t, versionMinor C.uint8_t, description *C.char) C.uint8_t {
	info := archive.NewInfo(
		scalar.ArchiveID(archiveID),
		scalar.Version{Major: uint8(versionMajor), Minor: uint8(versionMinor)},
		scalar.StrLrg(C.GoString(description)),
	)
	if err := archive.WriteArchiveInfo(C.GoString(path), info); err != nil {
		logger.Warn("ffi write_archive_info failed: %v", err)
		return boolByte(false)
	}
	return boolByte(true)
}

//export smn_read_archive_info
func smn_read_archive_info(path *C.char) *C.uint8_t {
	info, err := archive.ReadArchiveInfo(C.GoString(path))
	if err != nil {
		return errBuf(err)
	}
	dst := make([]byte, 0, 8+len(info.Description))
	dst = info.ArchiveID.Encode(dst)
	dst = info.Version.Encode(dst)
	dst, err = info.Description.Encode(dst)
	if err != nil {
		return errBuf(err)
	}
	return okBuf(dst)
}

//export smn_read_lite_archive
func smn_read_lite_archive(path *C.char) *C.uint8_t {
	lite, err := archive.ReadLiteArchive(C.GoString(path))
	if err != nil {
		return errBuf(err)
	}
	dst := make([]byte, 0, 1024)
	dst = lite.ArchiveID.Encode(dst)
	dst = lite.Version.Encode(dst)
	dst, err = lite.Description.Encode(dst)
	if err != nil {
		return errBuf(err)
	}
	var countBuf [2]byte
	binary.BigEndian.PutUint16(countBuf[:], lite.FormCount)
	dst = append(dst, countBuf[:]...)
	for _, item := range lite.Items {
		dst = item.FormID.Encode(dst)
		dst = append(dst, item.FormType.Byte())
		dst, err = item.FormName.Encode(dst)
		if err != nil {
			return errBuf(err)
		}
	}
	return okBuf(dst)
}

//export smn_read_form
func smn_read_form(path *C.char, formID C.uint16_t) *C.uint8_t {
	f, err := archive.ReadForm(C.GoString(path), scalar.FormID(formID))
	if err != nil {
		return errBuf(err)
	}
	enc, err := f.Encode()
	if err != nil {
		return errBuf(err)
	}
	return okBuf(enc)
}

//export smn_read_forms
func smn_read_forms(path *C.char, ids *C.uint16_t, idCount C.int) *C.uint8_t {
	goIDs := make([]scalar.FormID, int(idCount))
	if idCount > 0 {
		src := unsafe.Slice((*uint16)(unsafe.Pointer(ids)), int(idCount))
		for i, v := range src {
			goIDs[i] = scalar.FormID(v)
		}
	}
	forms, err := archive.ReadForms(C.GoString(path), goIDs)
	if err != nil {
		return errBuf(err)
	}
	dst := make([]byte, 0, 4096)
	var countBuf [2]byte
	binary.BigEndian.PutUint16(countBuf[:], uint16(len(forms)))
	dst = append(dst, countBuf[:]...)
	for _, f := range forms {
		enc, err := f.Encode()
		if err != nil {
			return errBuf(err)
		}
		var lenBuf [4]byte
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(enc)))
		dst = append(dst, lenBuf[:]...)
		dst = append(dst, enc...)
	}
	return okBuf(dst)
}

//export smn_write_form
func smn_write_form(path *C.char, formBuf *C.uint8_t, formLen C.int) C.uint8_t {
	raw := C.GoBytes(unsafe.Pointer(formBuf), formLen)
	f, _, err := form.DecodeFromBytes(raw)
	if err != nil {
		logger.Warn("ffi write_form decode failed: %v", err)
		return boolByte(false)
	}
	if err := archive.WriteForm(C.GoString(path), f); err != nil {
		logger.Warn("ffi write_form failed: %v", err)
		return boolByte(false)
	}
	return boolByte(true)
}

//export smn_delete_form
func smn_delete_form(path *C.char, formID C.uint16_t) C.uint8_t {
	if err := archive.DeleteForm(C.GoString(path), scalar.FormID(formID)); err != nil {
		logger.Warn("ffi delete_form failed: %v", err)
		return boolByte(false)
	}
	return boolByte(true)
}

//export smn_get_form_exists
func smn_get_form_exists(path *C.char, formID C.uint16_t) C.uint8_t {
	exists, err := archive.Exists(C.GoString(path), scalar.FormID(formID))
	if err != nil {
		logger.Warn("ffi get_form_exists failed: %v", err)
		return boolByte(false)
	}
	return boolByte(exists)
}

func main() {}
