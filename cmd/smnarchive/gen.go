package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/spf13/cobra"
)

func newGenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Code generation helpers",
	}
	cmd.AddCommand(newGenFormTypeCmd())
	return cmd
}

// newGenFormTypeCmd scaffolds a new form-variant source file into
// internal/form/, seeded from the package's existing five variants: a
// struct, a typed constructor, the sealed Form methods, and ByteCount/
// Encode/decode stubs the developer fills in. This is a developer
// convenience, not part of the archive's runtime read/write path; the
// generated shape follows the existing variant files in internal/form.
func newGenFormTypeCmd() *cobra.Command {
	var outDir string
	c := &cobra.Command{
		Use:   "formtype <Name>",
		Short: "Scaffold a new form-variant source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if name == "" || !isExported(name) {
				return fmt.Errorf("formtype name must be an exported Go identifier, got %q", name)
			}
			path := filepath.Join(outDir, strings.ToLower(name)+".go")
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := formTypeTemplate.Execute(f, map[string]string{"Name": name}); err != nil {
				return err
			}
			fmt.Printf("gen formtype: wrote %s\n", path)
			return nil
		},
	}
	c.Flags().StringVar(&outDir, "out", "internal/form", "directory to write the generated file into")
	return c
}

func isExported(s string) bool {
	return s[0] >= 'A' && s[0] <= 'Z'
}

var formTypeTemplate = template.Must(template.New("formtype").Parse(`package form

import (
	"io"

	"github.com/SummonTheCat/smn-archive/internal/scalar"
)

// {{.Name}} is a TODO(generated): describe this form variant's payload
// shape before wiring it into the FormType enum and the Decode dispatcher.
type {{.Name}} struct {
	base Base

	// TODO(generated): payload fields
}

// New{{.Name}} constructs a {{.Name}} form. TODO(generated): add the
// FormType enum value for {{.Name}} in internal/scalar/enums.go before
// using this constructor.
func New{{.Name}}(id scalar.FormID, name scalar.StrSml) *{{.Name}} {
	return &{{.Name}}{base: Base{ID: id, Name: name}}
}

func (x *{{.Name}}) sealed()                  {}
func (x *{{.Name}}) FormID() scalar.FormID     { return x.base.ID }
func (x *{{.Name}}) FormType() scalar.FormType { return x.base.Type }
func (x *{{.Name}}) FormName() scalar.StrSml   { return x.base.Name }

func (x *{{.Name}}) ByteCount() int {
	n := x.base.byteCount()
	// TODO(generated): add payload byte count
	return n
}

func (x *{{.Name}}) Encode() ([]byte, error) {
	dst := make([]byte, 0, x.ByteCount())
	dst, err := x.base.encode(dst)
	if err != nil {
		return nil, err
	}
	// TODO(generated): encode payload fields into dst
	return dst, nil
}

func decode{{.Name}}(r io.ReadSeeker) (*{{.Name}}, error) {
	base, err := decodeBase(r)
	if err != nil {
		return nil, err
	}
	x := &{{.Name}}{base: base}
	// TODO(generated): decode payload fields from r
	return x, nil
}

func decode{{.Name}}FromBytes(buf []byte) (Form, int, error) {
	r := newByteReader(buf)
	x, err := decode{{.Name}}(r)
	if err != nil {
		return nil, 0, err
	}
	return x, r.pos, nil
}
`))
