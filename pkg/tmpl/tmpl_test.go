package tmpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name    string
		tmpl    string
		data    any
		want    string
		wantErr bool
	}{
		{
			name: "simple substitution",
			tmpl: "hello {{ .Name }}",
			data: map[string]string{"Name": "world"},
			want: "hello world",
		},
		{
			name: "multiple variables",
			tmpl: `lint --dir "{{ .Dir }}" "{{ .Name }}"`,
			data: map[string]string{
				"Dir":  "/home/me/notes",
				"Name": "draft.md",
			},
			want: `lint --dir "/home/me/notes" "draft.md"`,
		},
		{
			name: "struct data",
			tmpl: "{{ .Name }} at {{ .Path }}",
			data: struct {
				Name string
				Path string
			}{Name: "test", Path: "/tmp"},
			want: "test at /tmp",
		},
		{
			name: "no variables",
			tmpl: "static string",
			data: nil,
			want: "static string",
		},
		{
			name:    "missing key errors",
			tmpl:    "{{ .Missing }}",
			data:    map[string]string{"Name": "test"},
			wantErr: true,
		},
		{
			name:    "invalid template syntax",
			tmpl:    "{{ .Name }",
			data:    map[string]string{"Name": "test"},
			wantErr: true,
		},
		{
			name: "empty value is valid",
			tmpl: "prefix{{ .Name }}suffix",
			data: map[string]string{"Name": ""},
			want: "prefixsuffix",
		},
		{
			name: "shq function with spaces",
			tmpl: "echo {{ .Instruction | shq }}",
			data: map[string]string{"Instruction": "hello world"},
			want: "echo 'hello world'",
		},
		{
			name: "shq function with single quotes",
			tmpl: "echo {{ .Instruction | shq }}",
			data: map[string]string{"Instruction": "it's a test"},
			want: `echo 'it'\''s a test'`,
		},
		{
			name: "shq function with double quotes",
			tmpl: "echo {{ .Instruction | shq }}",
			data: map[string]string{"Instruction": `say "hello"`},
			want: `echo 'say "hello"'`,
		},
		{
			name: "shq function with empty string",
			tmpl: "echo {{ .Instruction | shq }}",
			data: map[string]string{"Instruction": ""},
			want: "echo ''",
		},
		{
			name: "shq function with special chars",
			tmpl: "echo {{ .Instruction | shq }}",
			data: map[string]string{"Instruction": "$(whoami) && rm -rf /"},
			want: "echo '$(whoami) && rm -rf /'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.tmpl, tt.data)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRender_DocumentData(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
		path string
		want string
	}{
		{
			name: "quoted path",
			tmpl: "vale --output=JSON {{ .Path | shq }}",
			path: "/notes/my draft.md",
			want: "vale --output=JSON '/notes/my draft.md'",
		},
		{
			name: "name without extension",
			tmpl: "lint --title {{ .Name | trimExt }}",
			path: "docs/intro.md",
			want: "lint --title intro",
		},
		{
			name: "directory",
			tmpl: "cd {{ .Path | dir | shq }} && lint",
			path: "docs/intro.md",
			want: "cd 'docs' && lint",
		},
		{
			name: "scratch buffer falls back",
			tmpl: "lint --name {{ .Name | default \"scratch\" }}",
			path: "",
			want: "lint --name scratch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.tmpl, NewDocumentData(tt.path))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsTemplate(t *testing.T) {
	assert.True(t, IsTemplate("lint {{ .Path }}"))
	assert.False(t, IsTemplate("lint --stdin"))
}

func TestCheck(t *testing.T) {
	require.NoError(t, Check("lint {{ .Path | shq }}"))
	assert.Error(t, Check("lint {{ .Path "))
	assert.Error(t, Check("lint {{ nosuchfunc .Path }}"))
}
