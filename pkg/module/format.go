package module

import (
	"debug/dwarf"
	"debug/elf"
	"debug/macho"
	"debug/pe"
	"fmt"
	"io"
	"os"
)

// ExecutableFormat represents the container format of a compiled module.
type ExecutableFormat int

const (
	FormatUnknown ExecutableFormat = iota
	FormatELF                      // Linux, FreeBSD, etc.
	FormatPE                       // Windows
	FormatMachO                    // macOS
)

func (f ExecutableFormat) String() string {
	switch f {
	case FormatELF:
		return "ELF"
	case FormatPE:
		return "PE"
	case FormatMachO:
		return "Mach-O"
	default:
		return "Unknown"
	}
}

// DetectFormat determines the executable format by examining magic bytes.
func DetectFormat(r io.ReaderAt) (ExecutableFormat, error) {
	magic := make([]byte, 4)
	if _, err := r.ReadAt(magic, 0); err != nil {
		return FormatUnknown, err
	}
	switch {
	case magic[0] == 0x7f && magic[1] == 'E' && magic[2] == 'L' && magic[3] == 'F':
		return FormatELF, nil
	case magic[0] == 'M' && magic[1] == 'Z':
		return FormatPE, nil
	case (magic[0] == 0xfe && magic[1] == 0xed && magic[2] == 0xfa && (magic[3] == 0xce || magic[3] == 0xcf)) ||
		((magic[0] == 0xce || magic[0] == 0xcf) && magic[1] == 0xfa && magic[2] == 0xed && magic[3] == 0xfe):
		return FormatMachO, nil
	default:
		return FormatUnknown, fmt.Errorf("unknown executable format, magic bytes: %x", magic)
	}
}

// binaryImage is the subset of an opened executable the metadata pass needs.
type binaryImage struct {
	format ExecutableFormat
	arch   string
	dwarf  *dwarf.Data
	closer io.Closer
}

func openBinary(path string) (*binaryImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &NotFoundError{Path: path, Err: err}
	}
	format, err := DetectFormat(f)
	if err != nil {
		f.Close()
		return nil, &FormatError{Path: path, Reason: "not a compiled module", Err: err}
	}

	bi := &binaryImage{format: format, closer: f}
	switch format {
	case FormatELF:
		err = bi.loadELF(f)
	case FormatPE:
		err = bi.loadPE(f)
	case FormatMachO:
		err = bi.loadMacho(f)
	}
	if err != nil {
		f.Close()
		return nil, &FormatError{Path: path, Reason: fmt.Sprintf("could not read %s debug info", format), Err: err}
	}
	return bi, nil
}

func (bi *binaryImage) Close() error {
	return bi.closer.Close()
}

// ELF ///////////////////////////////////////////////////////////////

var elfArch = map[elf.Machine]string{
	elf.EM_X86_64:    "amd64",
	elf.EM_386:       "386",
	elf.EM_AARCH64:   "arm64",
	elf.EM_ARM:       "arm",
	elf.EM_PPC64:     "ppc64le",
	elf.EM_RISCV:     "riscv64",
	elf.EM_S390:      "s390x",
	elf.EM_LOONGARCH: "loong64",
}

func (bi *binaryImage) loadELF(r io.ReaderAt) error {
	elfFile, err := elf.NewFile(r)
	if err != nil {
		return err
	}
	bi.arch = elfArch[elfFile.Machine]
	bi.dwarf, err = elfFile.DWARF()
	return err
}

// PE ////////////////////////////////////////////////////////////////

var peArch = map[uint16]string{
	pe.IMAGE_FILE_MACHINE_AMD64: "amd64",
	pe.IMAGE_FILE_MACHINE_I386:  "386",
	pe.IMAGE_FILE_MACHINE_ARM64: "arm64",
}

func (bi *binaryImage) loadPE(r io.ReaderAt) error {
	peFile, err := pe.NewFile(r)
	if err != nil {
		return err
	}
	bi.arch = peArch[peFile.Machine]
	bi.dwarf, err = peFile.DWARF()
	return err
}

// MACH-O ////////////////////////////////////////////////////////////

var machoArch = map[macho.Cpu]string{
	macho.CpuAmd64: "amd64",
	macho.CpuArm64: "arm64",
}

func (bi *binaryImage) loadMacho(r io.ReaderAt) error {
	exe, err := macho.NewFile(r)
	if err != nil {
		return err
	}
	bi.arch = machoArch[exe.Cpu]
	bi.dwarf, err = exe.DWARF()
	return err
}
