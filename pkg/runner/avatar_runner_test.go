package runner

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/shouni/go-robohash-kit/internal/testassets"
	"github.com/shouni/go-robohash-kit/pkg/publisher"
	"github.com/shouni/go-robohash-kit/pkg/robohash"
)

// memWriter は書き込まれたデータをメモリに保持するのだ。
type memWriter struct {
	mu    sync.Mutex
	files map[string][]byte
	err   error
}

func newMemWriter() *memWriter {
	return &memWriter{files: make(map[string][]byte)}
}

func (w *memWriter) Write(_ context.Context, path string, data []byte) error {
	if w.err != nil {
		return w.err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[path] = append([]byte(nil), data...)
	return nil
}

func (w *memWriter) names() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []string
	for p := range w.files {
		out = append(out, filepath.Base(p))
	}
	sort.Strings(out)
	return out
}

func newGenerator(t *testing.T) *robohash.Generator {
	t.Helper()
	gen, err := robohash.NewFromFS(testassets.Robots(t))
	if err != nil {
		t.Fatalf("NewFromFS() error = %v", err)
	}
	return gen
}

func TestAvatarRunner_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("入力ごとにファイルを保存して順番通りに返すのだ", func(t *testing.T) {
		w := newMemWriter()
		r := NewAvatarRunner(newGenerator(t), publisher.NewAssetManager(w, "out"), 2, true)

		results, err := r.Run(ctx, []string{"robert", "bear.bmp", "a/b"}, robohash.DefaultOptions())
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		var inputs []string
		for _, res := range results {
			inputs = append(inputs, res.Input)
			if res.Digest == "" || res.Selection.Set == "" {
				t.Errorf("incomplete result: %+v", res)
			}
		}
		if diff := cmp.Diff([]string{"robert", "bear.bmp", "a/b"}, inputs); diff != "" {
			t.Errorf("order mismatch (-want +got):\n%s", diff)
		}

		names := w.names()
		if len(names) != 3 {
			t.Fatalf("files = %v", names)
		}
		if names[1] != "bear.bmp" || names[2] != "robert.png" || !strings.HasPrefix(names[0], "a_b-") {
			t.Errorf("unexpected names: %v", names)
		}
		if results[0].Path != filepath.Join("out", "robert.png") {
			t.Errorf("path = %q", results[0].Path)
		}
	})

	t.Run("同じ保存先になる入力は 1 回だけ処理するのだ", func(t *testing.T) {
		w := newMemWriter()
		r := NewAvatarRunner(newGenerator(t), publisher.NewAssetManager(w, "out"), 4, false)

		results, err := r.Run(ctx, []string{"robert", "robert.png", "ROBERT", "robert"}, robohash.DefaultOptions())
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if len(results) != 2 {
			t.Errorf("results = %d, want 2", len(results))
		}
		if diff := cmp.Diff([]string{"ROBERT.png", "robert.png"}, w.names()); diff != "" {
			t.Errorf("files mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("並列度に関係なく同じ内容になるのだ", func(t *testing.T) {
		inputs := []string{"alpha", "beta", "gamma", "delta", "epsilon"}
		serial, parallel := newMemWriter(), newMemWriter()
		gen := newGenerator(t)

		if _, err := NewAvatarRunner(gen, publisher.NewAssetManager(serial, "out"), 1, false).Run(ctx, inputs, robohash.DefaultOptions()); err != nil {
			t.Fatal(err)
		}
		if _, err := NewAvatarRunner(gen, publisher.NewAssetManager(parallel, "out"), 5, false).Run(ctx, inputs, robohash.DefaultOptions()); err != nil {
			t.Fatal(err)
		}
		for p, data := range serial.files {
			if !bytes.Equal(data, parallel.files[p]) {
				t.Errorf("%s differs between serial and parallel runs", p)
			}
		}
	})

	t.Run("保存に失敗するとエラーを返すのだ", func(t *testing.T) {
		sentinel := errors.New("disk full")
		w := newMemWriter()
		w.err = sentinel
		r := NewAvatarRunner(newGenerator(t), publisher.NewAssetManager(w, "out"), 2, false)

		if _, err := r.Run(ctx, []string{"a", "b"}, robohash.DefaultOptions()); !errors.Is(err, sentinel) {
			t.Errorf("error = %v, want wrapped sentinel", err)
		}
	})

	t.Run("不正なオプションはエラーなのだ", func(t *testing.T) {
		opts := robohash.DefaultOptions()
		opts.Format = "tiff"
		r := NewAvatarRunner(newGenerator(t), publisher.NewAssetManager(newMemWriter(), "out"), 0, false)
		if _, err := r.Run(ctx, []string{"a"}, opts); err == nil {
			t.Error("expected error")
		}
	})
}

func TestReadInputs(t *testing.T) {
	in := "robert\n\n# comment\nbear.png\r\n  spaced  \n"
	got, err := ReadInputs(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadInputs() error = %v", err)
	}
	want := []string{"robert", "bear.png", "  spaced  "}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
