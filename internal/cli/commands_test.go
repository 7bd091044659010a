package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/roadnet/pkg/errors"
	pkgio "github.com/matzehuels/roadnet/pkg/io"
)

const testNetwork = `{
	"directed": true,
	"nodes": [
		{"id": 1, "x": 10.0, "y": 20.0, "highway": "traffic_signals"},
		{"id": 2, "x": 10.1, "y": 20.1, "highway": "stop"},
		{"id": 3}
	],
	"links": [
		{"source": 1, "target": 2, "length": 5.0, "maxspeed": "30 mph"},
		{"source": 2, "target": 3, "length": 7.5, "highway": "residential"},
		{"source": 9, "target": 1}
	]
}`

// cliResult captures what one command invocation wrote.
type cliResult struct {
	stdout string // cmd.OutOrStdout, graph data
	status string // lipgloss status lines
	logs   string
}

// setupCache points the cache at a fresh directory for the rest of the test.
func setupCache(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)
	return filepath.Join(dir, appName)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (cliResult, error) {
	t.Helper()
	var stdout, stderr, status, logs bytes.Buffer

	prev := out
	out = &status
	defer func() { out = prev }()

	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())

	return cliResult{stdout: stdout.String(), status: status.String(), logs: logs.String()}, err
}

func TestBuildCommand(t *testing.T) {
	setupCache(t)
	input := writeFile(t, "network.json", testNetwork)
	output := filepath.Join(t.TempDir(), "graph.json")

	res, err := runCLI(t, "build", input, "-o", output)
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	for _, want := range []string{"Graph built", "3 vertices", "2 edges", "fresh", "Dropped 1 edges", output} {
		if !strings.Contains(res.status, want) {
			t.Errorf("status should contain %q:\n%s", want, res.status)
		}
	}

	g, err := pkgio.ImportGraph(output)
	if err != nil {
		t.Fatalf("ImportGraph() error: %v", err)
	}
	v1, _ := g.Vertex("1")
	e, ok := v1.Neighbors.Get("2")
	if !ok || e.Distance != 5 || e.Speed < 48.27 || e.Speed > 48.29 {
		t.Errorf("edge 1->2 = %+v, %v", e, ok)
	}
	v2, _ := g.Vertex("2")
	if e, _ := v2.Neighbors.Get("3"); e.Speed != 40 {
		t.Errorf("edge 2->3 speed = %v, want 40", e.Speed)
	}

	res, err = runCLI(t, "build", input, "-o", output)
	if err != nil {
		t.Fatalf("second build error: %v", err)
	}
	if !strings.Contains(res.status, "cached") {
		t.Errorf("second build should come from cache:\n%s", res.status)
	}
}

func TestBuildCommandStdout(t *testing.T) {
	setupCache(t)
	input := writeFile(t, "network.json", testNetwork)

	res, err := runCLI(t, "build", input, "--no-cache")
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	if res.status != "" {
		t.Errorf("stdout builds should print no status lines, got:\n%s", res.status)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(res.stdout), &doc); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, res.stdout)
	}
	if len(doc) != 3 {
		t.Errorf("got %d vertices, want 3", len(doc))
	}
}

func TestBuildCommandProfile(t *testing.T) {
	setupCache(t)
	input := writeFile(t, "network.json", testNetwork)
	prof := writeFile(t, "slow.toml", "[speeds]\nresidential = 25\n")

	res, err := runCLI(t, "build", input, "--profile", prof)
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	g, err := pkgio.ReadGraph(strings.NewReader(res.stdout))
	if err != nil {
		t.Fatal(err)
	}
	v2, _ := g.Vertex("2")
	if e, _ := v2.Neighbors.Get("3"); e.Speed != 25 {
		t.Errorf("edge 2->3 speed = %v, want 25", e.Speed)
	}
}

func TestBuildCommandErrors(t *testing.T) {
	setupCache(t)
	input := writeFile(t, "network.json", testNetwork)
	badProfile := writeFile(t, "bad.toml", "[speeds]\nmotorway = -1\n")
	badInput := writeFile(t, "bad.json", `{"links": []}`)

	tests := []struct {
		name string
		args []string
		want errors.Code
	}{
		{"missing file", []string{"build", filepath.Join(t.TempDir(), "nope.json")}, errors.ErrCodeFileNotFound},
		{"bad format", []string{"build", input, "--format", "xml"}, errors.ErrCodeUnsupported},
		{"bad profile", []string{"build", input, "--profile", badProfile}, errors.ErrCodeInvalidProfile},
		{"no nodes", []string{"build", badInput, "--no-cache"}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want code %s", err, tt.want)
			}
		})
	}
}

func TestBuildCommandGob(t *testing.T) {
	setupCache(t)
	input := writeFile(t, "network.json", testNetwork)
	output := filepath.Join(t.TempDir(), "graph.gob")

	if _, err := runCLI(t, "build", input, "--format", "gob", "-o", output); err != nil {
		t.Fatalf("build error: %v", err)
	}

	res, err := runCLI(t, "inspect", output)
	if err != nil {
		t.Fatalf("inspect error: %v", err)
	}
	if !strings.Contains(res.status, "vertices") {
		t.Errorf("inspect of gob graph:\n%s", res.status)
	}
}

func TestSpeedCommand(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantSpeed  string
		wantSource string
	}{
		{"mph", []string{"30 mph"}, "48.28", "tagged"},
		{"plain", []string{"50"}, "50.00", "tagged"},
		{"list", []string{"bad", "50"}, "50.00", "tagged"},
		{"text zero", []string{"0"}, "0.00", "tagged"},
		{"list zero skipped", []string{"0", "none", "--class", "service"}, "30.00", "class-default"},
		{"class", []string{"--class", "motorway"}, "110.00", "class-default"},
		{"unknown class", []string{"--class", "track"}, "40.00", "fallback"},
		{"nothing", nil, "40.00", "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := runCLI(t, append([]string{"speed"}, tt.args...)...)
			if err != nil {
				t.Fatalf("speed error: %v", err)
			}
			if !strings.Contains(res.status, tt.wantSpeed+" km/h") {
				t.Errorf("output should contain %s km/h:\n%s", tt.wantSpeed, res.status)
			}
			if !strings.Contains(res.status, tt.wantSource) {
				t.Errorf("output should contain source %q:\n%s", tt.wantSource, res.status)
			}
		})
	}
}

func TestSpeedCommandProfile(t *testing.T) {
	prof := writeFile(t, "p.toml", "fallback = 15\n")
	res, err := runCLI(t, "speed", "--profile", prof)
	if err != nil {
		t.Fatalf("speed error: %v", err)
	}
	if !strings.Contains(res.status, "15.00 km/h") {
		t.Errorf("fallback from profile not used:\n%s", res.status)
	}

	if _, err := runCLI(t, "speed", "--class", "bad class!"); !errors.Is(err, errors.ErrCodeInvalidProfile) {
		t.Errorf("invalid class error = %v", err)
	}
}

func TestInspectCommand(t *testing.T) {
	setupCache(t)
	input := writeFile(t, "network.json", testNetwork)

	res, err := runCLI(t, "inspect", input)
	if err != nil {
		t.Fatalf("inspect error: %v", err)
	}

	// The network is built on the fly, so the stats line is printed too.
	for _, want := range []string{"3 vertices", "signals", "stop signs", "dead ends", "no coords", "40.00-48.28 km/h", "max degree"} {
		if !strings.Contains(res.status, want) {
			t.Errorf("inspect output should contain %q:\n%s", want, res.status)
		}
	}
}

func TestInspectCommandErrors(t *testing.T) {
	setupCache(t)
	bad := writeFile(t, "bad.json", `[1, 2, 3]`)

	if _, err := runCLI(t, "inspect", filepath.Join(t.TempDir(), "nope.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v", err)
	}
	_, err := runCLI(t, "inspect", bad)
	if err == nil || !strings.Contains(err.Error(), "neither a graph nor a network") {
		t.Errorf("garbage input error = %v", err)
	}
}

func TestRenderCommandDOT(t *testing.T) {
	setupCache(t)
	input := writeFile(t, "network.json", testNetwork)

	res, err := runCLI(t, "render", input, "--format", "dot", "--detailed")
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	for _, want := range []string{"digraph roadnet {", `"1" -> "2"`, "48.3 km/h", "doublecircle", "octagon"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("DOT output should contain %q:\n%s", want, res.stdout)
		}
	}
}

func TestRenderCommandFormatFromExtension(t *testing.T) {
	setupCache(t)
	input := writeFile(t, "network.json", testNetwork)
	graph := filepath.Join(t.TempDir(), "graph.json")
	if _, err := runCLI(t, "build", input, "-o", graph); err != nil {
		t.Fatal(err)
	}

	output := filepath.Join(t.TempDir(), "graph.dot")
	res, err := runCLI(t, "render", graph, "-o", output)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "digraph roadnet {") {
		t.Errorf("-o graph.dot should write DOT, got:\n%.80s", data)
	}
	if !strings.Contains(res.status, "Rendered DOT") {
		t.Errorf("status:\n%s", res.status)
	}

	if _, err := runCLI(t, "render", graph, "--format", "png"); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("png error = %v", err)
	}
}

func TestRenderCommandSVG(t *testing.T) {
	setupCache(t)
	input := writeFile(t, "network.json", testNetwork)
	output := filepath.Join(t.TempDir(), "graph.svg")

	if _, err := runCLI(t, "render", input, "-o", output); err != nil {
		t.Fatalf("render error: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Errorf("output is not SVG:\n%.200s", data)
	}
}

func TestProfileCommand(t *testing.T) {
	res, err := runCLI(t, "profile")
	if err != nil {
		t.Fatalf("profile error: %v", err)
	}
	for _, want := range []string{"fallback = 40.0", "[speeds]", "motorway = 110.0", "residential = 40.0"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("profile output should contain %q:\n%s", want, res.stdout)
		}
	}

	prof := writeFile(t, "p.toml", "[speeds]\nmotorway = 120\n")
	res, err = runCLI(t, "profile", "--profile", prof)
	if err != nil {
		t.Fatalf("profile error: %v", err)
	}
	if !strings.Contains(res.stdout, "motorway = 120.0") || !strings.Contains(res.stdout, "service = 30.0") {
		t.Errorf("merged profile:\n%s", res.stdout)
	}

	yamlProf := writeFile(t, "p.yaml", "speeds:\n  motorway: 125\n")
	res, err = runCLI(t, "profile", "--profile", yamlProf, "--format", "yaml")
	if err != nil {
		t.Fatalf("profile error: %v", err)
	}
	if !strings.Contains(res.stdout, "speeds:") || !strings.Contains(res.stdout, "motorway: 125") {
		t.Errorf("YAML profile:\n%s", res.stdout)
	}

	if _, err := runCLI(t, "profile", "--format", "json"); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("json format error = %v", err)
	}
}

func TestCacheCommands(t *testing.T) {
	dir := setupCache(t)

	res, err := runCLI(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(res.stdout) != dir {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(res.stdout), dir)
	}

	res, err = runCLI(t, "cache", "info")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.status, "Cache is empty") {
		t.Errorf("info before any build:\n%s", res.status)
	}

	input := writeFile(t, "network.json", testNetwork)
	if _, err := runCLI(t, "build", input); err != nil {
		t.Fatal(err)
	}

	res, err = runCLI(t, "cache", "info")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.status, "entries") || !strings.Contains(res.status, dir) {
		t.Errorf("info after build:\n%s", res.status)
	}

	res, err = runCLI(t, "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.status, "Cleared 1 cached entries") {
		t.Errorf("clear:\n%s", res.status)
	}
}

func TestRootCommand(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()

	if root.Use != appName {
		t.Errorf("Use = %q, want %q", root.Use, appName)
	}
	want := []string{"build", "cache", "completion", "inspect", "profile", "render", "serve", "speed"}
	var got []string
	for _, cmd := range root.Commands() {
		got = append(got, cmd.Name())
	}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("subcommands = %v, want %v", got, want)
	}
}

func TestVersionFlag(t *testing.T) {
	res, err := runCLI(t, "--version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(res.stdout, "roadnet version ") {
		t.Errorf("--version output = %q", res.stdout)
	}
}

func TestCompletionCommand(t *testing.T) {
	res, err := runCLI(t, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.stdout, "roadnet") {
		t.Errorf("bash completion does not mention roadnet:\n%.200s", res.stdout)
	}
}

func TestClassCompletion(t *testing.T) {
	res, err := runCLI(t, cobra.ShellCompRequestCmd, "speed", "--class", "")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"motorway", "residential", "living_street"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("class completion should offer %q:\n%s", want, res.stdout)
		}
	}
}
