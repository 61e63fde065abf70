package artifact

import "go.trai.ch/fileflow/internal/core/domain"

// Datatypes of the built-in artifact types.
const (
	IntData   domain.DatatypeName = "int"
	TextData  domain.DatatypeName = "text"
	BytesData domain.DatatypeName = "bytes"
	JSONData  domain.DatatypeName = "json"
	YAMLData  domain.DatatypeName = "yaml"
	RawData   domain.DatatypeName = "raw"
)

var (
	// Int stores a single integer in a ".int" file.
	Int = NewKind[int]("int", ".int", IntCodec{})
	// Text stores a string in a ".txt" file.
	Text = NewKind[string]("text", ".txt", TextCodec{})
	// Bytes stores raw bytes in a ".bin" file.
	Bytes = NewKind[[]byte]("bytes", ".bin", BytesCodec{})
	// Raw stores raw bytes at the path as given. It is used for files that enter a
	// pipeline from outside, whatever their extension.
	Raw = NewKind[[]byte]("raw", "", BytesCodec{})
)

// JSON returns an artifact type storing values of T as ".json" files.
func JSON[T any](name string) *Kind[T] {
	return NewKind[T](name, ".json", JSONCodec[T]{})
}

// YAML returns an artifact type storing values of T as ".yaml" files.
func YAML[T any](name string) *Kind[T] {
	return NewKind[T](name, ".yaml", YAMLCodec[T]{})
}

// Builtins returns the built-in artifact types keyed by datatype, all sharing cache.
// The JSON and YAML entries hold untyped values (any).
func Builtins(cache *ReadCache) map[domain.DatatypeName]domain.ArtifactType {
	return map[domain.DatatypeName]domain.ArtifactType{
		IntData:   Int.WithCache(cache),
		TextData:  Text.WithCache(cache),
		BytesData: Bytes.WithCache(cache),
		JSONData:  JSON[any]("json").WithCache(cache),
		YAMLData:  YAML[any]("yaml").WithCache(cache),
		RawData:   Raw.WithCache(cache),
	}
}
