package reader

import (
	"debug/dwarf"
	"errors"
	"fmt"
)

var TypeNotFoundErr = errors.New("no type entry found")

// Reader walks the debug_info of a module. On top of dwarf.Reader it
// keeps track of whether the children of the last unit level entry have
// been read, so that walks of compile units and of their members can be
// interleaved.
type Reader struct {
	*dwarf.Reader
	// children is set while the last entry returned by NextUnitEntry has
	// children that were not read to the end.
	children bool
	// inside is set once one of those children has been read.
	inside bool
}

// New returns a reader for the specified dwarf data.
func New(data *dwarf.Data) *Reader {
	return &Reader{Reader: data.Reader()}
}

// Seek moves the reader to an arbitrary offset.
func (reader *Reader) Seek(off dwarf.Offset) {
	reader.children, reader.inside = false, false
	reader.Reader.Seek(off)
}

// SeekToEntry moves the reader to an arbitrary entry.
func (reader *Reader) SeekToEntry(entry *dwarf.Entry) error {
	reader.Seek(entry.Offset)
	// Consume the current entry so .Next works as intended
	_, err := reader.Next()
	return err
}

// SeekToType moves the reader to the type entry referenced by the
// DW_AT_type attribute of entry and returns it. Typedefs, pointers and
// array types are returned as they are, not resolved to what they refer
// to: the name of the returned entry is the type name of entry.
func (reader *Reader) SeekToType(entry *dwarf.Entry) (*dwarf.Entry, error) {
	offset, ok := entry.Val(dwarf.AttrType).(dwarf.Offset)
	if !ok {
		return nil, fmt.Errorf("entry does not have a type attribute")
	}
	return reader.EntryAt(offset)
}

// EntryAt moves the reader to the entry at off and returns it.
func (reader *Reader) EntryAt(off dwarf.Offset) (*dwarf.Entry, error) {
	reader.Seek(off)
	entry, err := reader.Next()
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, TypeNotFoundErr
	}
	return entry, nil
}

// NextCompileUnit moves the reader to the next compile unit entry and
// returns it. Its members can then be read with NextUnitEntry.
func (reader *Reader) NextCompileUnit() (*dwarf.Entry, error) {
	reader.children, reader.inside = false, false
	for entry, err := reader.Next(); entry != nil; entry, err = reader.Next() {
		if err != nil {
			return nil, err
		}

		if entry.Tag == dwarf.TagCompileUnit {
			return entry, nil
		}
	}

	return nil, nil
}

// NextUnitEntry returns the next member of the current compile unit,
// skipping whatever is left of the children of the previous one. It
// returns nil after the last member. The reader must be positioned right
// after a compile unit entry with children, or after one of its members.
func (reader *Reader) NextUnitEntry() (*dwarf.Entry, error) {
	if err := reader.skipUnitEntryChildren(); err != nil {
		return nil, err
	}
	entry, err := reader.Next()
	if err != nil {
		return nil, err
	}
	if entry == nil || entry.Tag == 0 {
		return nil, nil
	}
	reader.children = entry.Children
	return entry, nil
}

// NextFormalParameter returns the next DW_TAG_formal_parameter child of the
// last entry returned by NextUnitEntry, or nil after its last child.
func (reader *Reader) NextFormalParameter() (*dwarf.Entry, error) {
	if !reader.children {
		return nil, nil
	}
	for entry, err := reader.Next(); entry != nil; entry, err = reader.Next() {
		if err != nil {
			return nil, err
		}
		reader.inside = true

		// All parameters are at the same depth
		reader.SkipChildren()

		// End of the current depth
		if entry.Tag == 0 {
			break
		}

		if entry.Tag == dwarf.TagFormalParameter {
			return entry, nil
		}
	}

	reader.children, reader.inside = false, false
	return nil, nil
}

func (reader *Reader) skipUnitEntryChildren() error {
	if !reader.children {
		return nil
	}
	if !reader.inside {
		reader.SkipChildren()
		reader.children = false
		return nil
	}
	for {
		entry, err := reader.NextFormalParameter()
		if err != nil {
			return err
		}
		if entry == nil {
			return nil
		}
	}
}

// NextPackageVariable moves the reader to the next debug entry that describes a package variable.
// Any TagVariable entry that is not inside a sub prgram entry and is marked external is considered a package variable.
func (reader *Reader) NextPackageVariable() (*dwarf.Entry, error) {
	reader.children, reader.inside = false, false
	for entry, err := reader.Next(); entry != nil; entry, err = reader.Next() {
		if err != nil {
			return nil, err
		}

		if entry.Tag == dwarf.TagVariable {
			ext, ok := entry.Val(dwarf.AttrExternal).(bool)
			if ok && ext {
				return entry, nil
			}
		}

		// Ignore everything inside sub programs
		if entry.Tag == dwarf.TagSubprogram {
			reader.SkipChildren()
		}
	}

	// No more items
	return nil, nil
}
