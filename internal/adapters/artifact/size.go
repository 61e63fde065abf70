package artifact

import (
	"fmt"
	"os"

	"go.trai.ch/zerr"
)

// HumanSize formats a byte count with SI prefixes (powers of 1000).
func HumanSize(n int64) string {
	size := float64(n)
	units := []string{"bytes", "kB", "MB", "GB"}
	unit := units[0]
	for i, u := range units {
		unit = u
		if size <= 1000 || i == len(units)-1 {
			break
		}
		size /= 1000
	}
	return fmt.Sprintf("%.1f %s", size, unit)
}

// Size returns the human-readable size of the file at path. It only inspects the file;
// a missing file yields an error matching fs.ErrNotExist.
func Size(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to stat artifact"), "path", path)
	}
	return HumanSize(info.Size()), nil
}
