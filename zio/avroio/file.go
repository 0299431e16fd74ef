package avroio

import "os"

// IsAvroFile reports whether the file at path begins with the container
// file magic.  The file is opened and closed here, so probing a path has no
// effect on later reads of it.
func IsAvroFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()
	return IsAvro(f)
}
