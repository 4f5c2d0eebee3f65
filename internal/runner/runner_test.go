package runner

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// setup writes files into a fresh working directory so no config file is
// discovered, and returns their paths.
func setup(t *testing.T, files map[string]string) map[string]string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)

	paths := make(map[string]string, len(files))
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		paths[name] = path
	}
	return paths
}

func runCapture(opts *Options) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	opts.Stdout = &out
	opts.Stderr = &errOut
	opts.NoColor = true
	code = Run(opts)
	return code, out.String(), errOut.String()
}

func TestRunParseText(t *testing.T) {
	paths := setup(t, map[string]string{"test.mk": "VAR:=val\nall:\n\techo\n"})

	code, stdout, stderr := runCapture(&Options{Files: []string{paths["test.mk"]}})

	if code != ExitOK {
		t.Errorf("exit code: got %d, want %d", code, ExitOK)
	}
	want := "1: assign \"VAR\" := \"val\"\n2: rule \"all:\"\n3: command \"echo\"\n"
	if stdout != want {
		t.Errorf("stdout: got %q, want %q", stdout, want)
	}
	if stderr != "" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

func TestRunParseStructure(t *testing.T) {
	paths := setup(t, map[string]string{"test.mk": "X = $(Y)\n"})

	_, stdout, _ := runCapture(&Options{Files: []string{paths["test.mk"]}, Structure: true})

	want := "1: assign 'X' = $('Y')\n"
	if stdout != want {
		t.Errorf("stdout: got %q, want %q", stdout, want)
	}
}

func TestRunParseYAML(t *testing.T) {
	paths := setup(t, map[string]string{
		"a.mk": "A = 1\n",
		"b.mk": "B = 2\n",
	})

	code, stdout, _ := runCapture(&Options{
		Files:  []string{paths["a.mk"], paths["b.mk"]},
		Format: "yaml",
	})

	if code != ExitOK {
		t.Errorf("exit code: got %d, want %d", code, ExitOK)
	}
	docs := strings.Split(stdout, "---\n")
	if len(docs) != 2 {
		t.Fatalf("expected 2 YAML documents, got %d:\n%s", len(docs), stdout)
	}
	if !strings.Contains(docs[0], "lhs: A") || !strings.Contains(docs[1], "lhs: B") {
		t.Errorf("unexpected YAML output:\n%s", stdout)
	}
}

func TestRunStdin(t *testing.T) {
	setup(t, nil)

	var out bytes.Buffer
	code := Run(&Options{
		Stdin:   strings.NewReader("include a.mk\n"),
		Stdout:  &out,
		Stderr:  &bytes.Buffer{},
		NoColor: true,
	})

	if code != ExitOK {
		t.Errorf("exit code: got %d, want %d", code, ExitOK)
	}
	if got := out.String(); got != "1: include \"a.mk\"\n" {
		t.Errorf("stdout: got %q", got)
	}
}

func TestRunParseError(t *testing.T) {
	paths := setup(t, map[string]string{"bad.mk": "A = 1\nendif\nB = 2\n"})

	code, stdout, stderr := runCapture(&Options{Files: []string{paths["bad.mk"]}})

	if code != ExitParseError {
		t.Errorf("exit code: got %d, want %d", code, ExitParseError)
	}
	// Statements before the error are still printed.
	if stdout != "1: assign \"A\" = \"1\"\n" {
		t.Errorf("stdout: got %q", stdout)
	}
	want := paths["bad.mk"] + ":2: *** extraneous `endif'.\n"
	if stderr != want {
		t.Errorf("stderr: got %q, want %q", stderr, want)
	}
}

func TestRunQuiet(t *testing.T) {
	paths := setup(t, map[string]string{"bad.mk": "endif\n"})

	code, _, stderr := runCapture(&Options{Files: []string{paths["bad.mk"]}, Quiet: true})

	if code != ExitParseError {
		t.Errorf("exit code: got %d, want %d", code, ExitParseError)
	}
	if stderr != "" {
		t.Errorf("expected no diagnostics, got %q", stderr)
	}
}

func TestRunCheck(t *testing.T) {
	paths := setup(t, map[string]string{
		"good.mk": "VAR := val\n",
		"bad.mk":  "ifdef X\n",
	})

	code, stdout, _ := runCapture(&Options{Mode: ModeCheck, Files: []string{paths["good.mk"]}})
	if code != ExitOK {
		t.Errorf("check good: got %d, want %d", code, ExitOK)
	}
	if stdout != "" {
		t.Errorf("check should print nothing, got %q", stdout)
	}

	code, _, stderr := runCapture(&Options{Mode: ModeCheck, Files: []string{paths["good.mk"], paths["bad.mk"]}})
	if code != ExitParseError {
		t.Errorf("check bad: got %d, want %d", code, ExitParseError)
	}
	if !strings.Contains(stderr, "*** missing `endif'.") {
		t.Errorf("stderr: got %q", stderr)
	}
}

func TestRunInventory(t *testing.T) {
	paths := setup(t, map[string]string{"test.mk": "CC := gcc\nall: app\n\t$(CC) -o app\n"})

	code, stdout, _ := runCapture(&Options{Mode: ModeInventory, Files: []string{paths["test.mk"]}})

	if code != ExitOK {
		t.Errorf("exit code: got %d, want %d", code, ExitOK)
	}
	want := "rules: 1\n" +
		"commands: 1\n" +
		"assignments: 1\n" +
		"conditionals: 0\n" +
		"targets: all\n" +
		"variables: CC\n"
	if stdout != want {
		t.Errorf("stdout mismatch:\n--- expected\n%s\n--- actual\n%s", want, stdout)
	}
}

func TestRunMultipleFiles(t *testing.T) {
	paths := setup(t, map[string]string{
		"a.mk": "A = 1\n",
		"b.mk": "B = 2\n",
	})

	_, stdout, _ := runCapture(&Options{Files: []string{paths["a.mk"], paths["b.mk"]}})

	want := "==> " + paths["a.mk"] + " <==\n" +
		"1: assign \"A\" = \"1\"\n" +
		"\n" +
		"==> " + paths["b.mk"] + " <==\n" +
		"1: assign \"B\" = \"2\"\n"
	if stdout != want {
		t.Errorf("stdout mismatch:\n--- expected\n%s\n--- actual\n%s", want, stdout)
	}
}

func TestRunFollowIncludes(t *testing.T) {
	paths := setup(t, map[string]string{
		"Makefile":  "include common.mk\n-include missing.mk\n",
		"common.mk": "CC := gcc\n",
	})

	code, stdout, stderr := runCapture(&Options{
		Files:          []string{paths["Makefile"]},
		FollowIncludes: true,
		Verbose:        true,
	})

	if code != ExitOK {
		t.Fatalf("exit code: got %d, want %d (stderr %q)", code, ExitOK, stderr)
	}
	if !strings.Contains(stdout, "==> "+paths["common.mk"]+" <==\n1: assign \"CC\" := \"gcc\"\n") {
		t.Errorf("expected the included file in output, got:\n%s", stdout)
	}
	want := paths["Makefile"] + "\n" + paths["common.mk"] + "\n"
	if stderr != want {
		t.Errorf("verbose stderr: got %q, want %q", stderr, want)
	}
}

func TestRunMissingFile(t *testing.T) {
	setup(t, nil)

	code, _, stderr := runCapture(&Options{Files: []string{"nonexistent.mk"}})

	if code != ExitError {
		t.Errorf("exit code: got %d, want %d", code, ExitError)
	}
	if !strings.HasPrefix(stderr, "mkparse: reading nonexistent.mk") {
		t.Errorf("stderr: got %q", stderr)
	}
}

func TestRunUnknownFormat(t *testing.T) {
	setup(t, nil)

	code, _, stderr := runCapture(&Options{Files: []string{"x.mk"}, Format: "json"})

	if code != ExitError {
		t.Errorf("exit code: got %d, want %d", code, ExitError)
	}
	if !strings.Contains(stderr, `unknown output format "json"`) {
		t.Errorf("stderr: got %q", stderr)
	}
}

func TestRunConfigFile(t *testing.T) {
	paths := setup(t, map[string]string{
		"mkparse.yml": "output:\n  format: yaml\n",
		"test.mk":     "A = 1\n",
	})

	// Discovered from the working directory.
	_, stdout, _ := runCapture(&Options{Files: []string{paths["test.mk"]}})
	if !strings.Contains(stdout, "kind: assign") {
		t.Errorf("expected YAML output, got %q", stdout)
	}

	// Flags override the config file.
	_, stdout, _ = runCapture(&Options{Files: []string{paths["test.mk"]}, Format: "text"})
	if stdout != "1: assign \"A\" = \"1\"\n" {
		t.Errorf("expected text output, got %q", stdout)
	}

	code, _, _ := runCapture(&Options{Files: []string{paths["test.mk"]}, ConfigPath: "missing.yml"})
	if code != ExitError {
		t.Errorf("missing config: got %d, want %d", code, ExitError)
	}
}
