package archive

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// scratchFile creates an empty, process-unique temporary file used to hold
// a displaced byte range while a mutation rewrites the primary file
// underneath it. It is created in Config.ScratchDir when that's set
// (SMN_SCRATCH_DIR), otherwise in the same directory as archivePath. The
// name is derived from the archive's own base name plus a uuid suffix,
// avoiding the collision risk of a fixed scratch filename shared by every
// archive being edited there.
func scratchFile(archivePath string) (*os.File, func(), error) {
	dir := activeConfig().ScratchDir
	if dir == "" {
		dir = filepath.Dir(archivePath)
	}
	base := filepath.Base(archivePath)
	name := filepath.Join(dir, "."+base+"."+uuid.NewString()+".scratch")

	f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		f.Close()
		os.Remove(name)
	}
	return f, cleanup, nil
}
