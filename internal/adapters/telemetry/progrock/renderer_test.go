package progrock_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vito/progrock"
	fprogrock "go.trai.ch/fileflow/internal/adapters/telemetry/progrock"
	"google.golang.org/protobuf/types/known/timestamppb"
)

func TestRenderer_WriteStatus(t *testing.T) {
	var out bytes.Buffer
	r := fprogrock.NewRenderer(&out)
	now := timestamppb.New(time.Now())
	boom := "exit status 3"

	updates := []*progrock.StatusUpdate{
		{Vertexes: []*progrock.Vertex{
			{Id: "1", Name: "upper(words.txt)"},
			{Id: "2", Name: "count(words.txt)"},
			{Id: "3", Name: "lint(words.txt)"},
		}},
		{Logs: []*progrock.VertexLog{
			{Vertex: "1", Data: []byte("first li")},
			{Vertex: "1", Data: []byte("ne\nsecond line\npartial")},
		}},
		{Vertexes: []*progrock.Vertex{
			{Id: "1", Name: "upper(words.txt)", Completed: now},
			{Id: "2", Name: "count(words.txt)", Completed: now, Cached: true},
			{Id: "3", Name: "lint(words.txt)", Completed: now, Error: &boom},
		}},
		{Vertexes: []*progrock.Vertex{
			{Id: "1", Name: "upper(words.txt)", Completed: now},
		}},
	}
	for _, u := range updates {
		require.NoError(t, r.WriteStatus(u))
	}
	require.NoError(t, r.Close())

	assert.Equal(t, "[upper(words.txt)] first line\n"+
		"[upper(words.txt)] second line\n"+
		"[upper(words.txt)] partial\n"+
		"[upper(words.txt)] done\n"+
		"[count(words.txt)] cached\n"+
		"[lint(words.txt)] failed: exit status 3\n", out.String())
}

func TestRenderer_RerunOfSameVertex(t *testing.T) {
	var out bytes.Buffer
	r := fprogrock.NewRenderer(&out)
	now := timestamppb.New(time.Now())

	for _, cached := range []bool{false, true} {
		require.NoError(t, r.WriteStatus(&progrock.StatusUpdate{
			Vertexes: []*progrock.Vertex{{Id: "1", Name: "greet()"}},
		}))
		require.NoError(t, r.WriteStatus(&progrock.StatusUpdate{
			Vertexes: []*progrock.Vertex{{Id: "1", Name: "greet()", Completed: now, Cached: cached}},
		}))
	}

	assert.Equal(t, "[greet()] done\n[greet()] cached\n", out.String())
}

func TestRenderer_CloseFlushesPartialLines(t *testing.T) {
	var out bytes.Buffer
	r := fprogrock.NewRenderer(&out)

	require.NoError(t, r.WriteStatus(&progrock.StatusUpdate{
		Logs: []*progrock.VertexLog{{Vertex: "v", Data: []byte("no newline")}},
	}))
	assert.Empty(t, out.String())

	require.NoError(t, r.Close())
	assert.Equal(t, "[v] no newline\n", out.String())
}

func TestRenderer_SetOutput(t *testing.T) {
	r := fprogrock.NewRenderer(nil)
	require.NoError(t, r.WriteStatus(&progrock.StatusUpdate{
		Logs: []*progrock.VertexLog{{Vertex: "v", Data: []byte("dropped\n")}},
	}))

	var out bytes.Buffer
	r.SetOutput(&out)
	require.NoError(t, r.WriteStatus(&progrock.StatusUpdate{
		Logs: []*progrock.VertexLog{{Vertex: "v", Data: []byte("kept\n")}},
	}))
	assert.Equal(t, "[v] kept\n", out.String())
}

func TestRecorder_SetOutput_RendersTape(t *testing.T) {
	var out bytes.Buffer
	recorder := fprogrock.New()
	recorder.SetOutput(&out)

	_, ok := recorder.Record(context.Background(), "double(a.int)")
	_, err := ok.Stdout().Write([]byte("doubling\n"))
	require.NoError(t, err)
	ok.Complete(nil)

	_, failing := recorder.Record(context.Background(), "halve(a.int)")
	failing.Complete(errors.New("odd input"))

	_, skipped := recorder.Record(context.Background(), "square(a.int)")
	skipped.Cached()

	require.NoError(t, recorder.Close())

	rendered := out.String()
	assert.Contains(t, rendered, "[double(a.int)] doubling\n")
	assert.Contains(t, rendered, "[double(a.int)] done\n")
	assert.Contains(t, rendered, "[halve(a.int)] failed: odd input\n")
	assert.Contains(t, rendered, "[square(a.int)] cached\n")
}
