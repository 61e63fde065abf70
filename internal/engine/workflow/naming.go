package workflow

import (
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/fileflow/internal/core/domain"
)

const stemSeparator = "__"

// Input is a task input: a concrete domain.Artifact or a Future returned by another invocation.
type Input interface {
	Path() string
	Type() domain.ArtifactType
}

// OutputPath derives the path of the artifact at index for a call of fn over inputs with params:
//
//	root/fn[/paramsDigest]/stems[-i-j]ext
//
// The result depends only on its arguments.
func OutputPath(root, fn string, params Params, inputs []string, index []int, ext string) string {
	parts := []string{root, fn}
	if digest := ParamsDigest(params); digest != "" {
		parts = append(parts, digest)
	}

	var name strings.Builder
	name.WriteString(JoinStems(fn, inputs))
	for _, i := range index {
		name.WriteByte('-')
		name.WriteString(strconv.Itoa(i))
	}
	name.WriteString(ext)

	return filepath.Join(append(parts, name.String())...)
}

// JoinStems joins the de-duplicated stems of paths with "__", in order. A stem is the file name
// truncated at its first dot. Without stems the function name is used.
func JoinStems(fn string, paths []string) string {
	var stems []string
	for _, p := range paths {
		stem := Stem(p)
		if stem == "" || slices.Contains(stems, stem) {
			continue
		}
		stems = append(stems, stem)
	}
	if len(stems) == 0 {
		return fn
	}
	return strings.Join(stems, stemSeparator)
}

// Stem returns the file name of path up to its first dot, ignoring leading dots.
func Stem(path string) string {
	base := strings.TrimLeft(filepath.Base(path), ".")
	stem, _, _ := strings.Cut(base, ".")
	return stem
}

// ParamsDigest returns a stable hex digest of params, or "" when there are none.
func ParamsDigest(params Params) string {
	if len(params) == 0 {
		return ""
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	h := xxhash.New()
	for _, k := range keys {
		_, _ = fmt.Fprintf(h, "%s=%v\n", k, params[k])
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
