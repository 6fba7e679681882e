package frame_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/packages"
)

const snippetHeader = `package snippet

import (
	"github.com/banshee-data/coordframe/internal/frame"
	"github.com/banshee-data/coordframe/internal/geom"
)

`

// typeErrors type-checks body as a package inside the module and returns
// its type errors.
func typeErrors(t *testing.T, body string) []packages.Error {
	t.Helper()
	dir, err := os.MkdirTemp(".", "typecheck")
	if err != nil {
		t.Skipf("source tree not writable: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	require.NoError(t, os.WriteFile(filepath.Join(dir, "snippet.go"), []byte(snippetHeader+body), 0o644))

	pkgs, err := packages.Load(&packages.Config{
		Mode: packages.NeedName | packages.NeedTypes | packages.NeedSyntax | packages.NeedTypesInfo,
		Dir:  dir,
	}, ".")
	if err != nil {
		t.Skipf("go command unavailable: %v", err)
	}
	require.Len(t, pkgs, 1)

	var out []packages.Error
	for _, e := range pkgs[0].Errors {
		if e.Kind == packages.TypeError {
			out = append(out, e)
		}
	}
	return out
}

func joinErrors(errs []packages.Error) string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Msg
	}
	return strings.Join(msgs, "\n")
}

func TestTypeSafety(t *testing.T) {
	if testing.Short() {
		t.Skip("runs the go command")
	}

	tests := []struct {
		name    string
		body    string
		wantErr string // "" means the snippet must type-check
	}{
		{
			name: "matching frames",
			body: `func f() {
	leftToRight := frame.NewRigid[frame.LeftCameraSE3, frame.RightCameraSE3](geom.Identity())
	motion := frame.NewDynamicRigid[frame.RightCameraSE3, frame.RightCameraSE3](0, 7, geom.Identity())
	chain, _ := frame.Compose(leftToRight, motion)
	_, _ = chain.Apply(frame.NewPoint[frame.LeftCameraSE3](0, geom.Identity()))
}
`,
		},
		{
			name: "left point through right-sourced transform",
			body: `func f() {
	rightToLeft := frame.NewRigid[frame.RightCameraSE3, frame.LeftCameraSE3](geom.Identity())
	_, _ = rightToLeft.Apply(frame.NewPoint[frame.LeftCameraSE3](0, geom.Identity()))
}
`,
			wantErr: "cannot use",
		},
		{
			name: "compose with mismatched intermediate frame",
			body: `func f() {
	leftToRight := frame.NewRigid[frame.LeftCameraSE3, frame.RightCameraSE3](geom.Identity())
	alsoLeftToRight := frame.NewRigid[frame.LeftCameraSE3, frame.RightCameraSE3](geom.Identity())
	_, _ = frame.Compose(leftToRight, alsoLeftToRight)
}
`,
			wantErr: "does not match",
		},
		{
			name: "compose with mismatched intermediate representation",
			body: `func f() {
	toPosition := frame.NewPosition[frame.LeftCameraSE3, frame.LeftCameraR3]()
	project := frame.NewProjective[frame.LeftCameraSE3, frame.LeftCameraImagePlane](geom.Intrinsics{Fx: 1, Fy: 1})
	_, _ = frame.Compose(toPosition, project)
}
`,
			wantErr: "does not match",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := typeErrors(t, tt.body)
			if tt.wantErr == "" {
				assert.Empty(t, errs, joinErrors(errs))
				return
			}
			require.NotEmpty(t, errs, "snippet must not type-check")
			assert.Contains(t, joinErrors(errs), tt.wantErr)
		})
	}
}
