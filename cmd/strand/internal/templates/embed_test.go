package templates

import (
	"strings"
	"testing"
)

func TestListFiles_InitSet(t *testing.T) {
	files, err := ListFiles("init")
	if err != nil {
		t.Fatalf("ListFiles(init) failed: %v", err)
	}

	want := []string{
		"init/go.mod.tmpl",
		"init/main.go.tmpl",
		"init/strand.yaml.tmpl",
	}
	for _, w := range want {
		found := false
		for _, f := range files {
			if f == w {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("init template set missing %s (have %v)", w, files)
		}
	}
}

func TestInitTemplates_SubstituteModulePath(t *testing.T) {
	content, err := ReadFile("init/go.mod.tmpl")
	if err != nil {
		t.Fatalf("ReadFile(init/go.mod.tmpl) failed: %v", err)
	}
	if !strings.Contains(string(content), "{{.ModulePath}}") {
		t.Error("go.mod.tmpl should substitute the module path")
	}

	content, err = ReadFile("init/strand.yaml.tmpl")
	if err != nil {
		t.Fatalf("ReadFile(init/strand.yaml.tmpl) failed: %v", err)
	}
	if !strings.Contains(string(content), "{{.ProjectName}}") {
		t.Error("strand.yaml.tmpl should substitute the project name")
	}
}
