/*
Copyright © 2026 the nshmp-haz-go authors.
This file is part of nshmp-haz-go.

nshmp-haz-go is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

nshmp-haz-go is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with nshmp-haz-go.  If not, see <http://www.gnu.org/licenses/>.
*/

package modelsource

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestIsRemote(t *testing.T) {
	cases := map[string]bool{
		"http://example.com/model.toml":  true,
		"https://example.com/model.toml": true,
		"gs://bucket/model.toml":         true,
		"s3://bucket/model.toml":         true,
		"file://bucket/model.toml":       true,
		"/local/path/model.toml":         false,
		"model.toml":                     false,
	}
	for path, want := range cases {
		if got := IsRemote(path); got != want {
			t.Errorf("IsRemote(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestResolveReturnsLocalPathUnchanged(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.toml")
	if err := os.WriteFile(path, []byte("x=1"), 0o644); err != nil {
		t.Fatal(err)
	}
	r := NewResolver()
	got, err := r.Resolve(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if got != path {
		t.Errorf("Resolve(%q) = %q, want unchanged", path, got)
	}
}

func TestResolveNonexistentLocalPathIsPassedThrough(t *testing.T) {
	r := NewResolver()
	path := filepath.Join(t.TempDir(), "does-not-exist.toml")
	got, err := r.Resolve(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if got != path {
		t.Errorf("Resolve(%q) = %q, want unchanged (not remote)", path, got)
	}
}
