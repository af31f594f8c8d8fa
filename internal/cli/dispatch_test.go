package cli_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"taskboard/internal/cli"
	"taskboard/internal/commands"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/service"
	"taskboard/internal/testutil"
)

// testFactory returns svc and counts how often it was asked for a backend.
func testFactory(svc *testutil.FakeService, calls *int) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		if calls != nil {
			*calls++
		}
		return svc, nil
	}
}

// run executes the dispatcher with an isolated config directory.
func run(t *testing.T, d *cli.Dispatcher, dir string, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		args = append([]string{args[0], "--config", dir}, args[1:]...)
	}
	var outBuf, errBuf bytes.Buffer
	code = d.Run(context.Background(), args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService(), nil))

	_, stderr, code := run(t, d, t.TempDir(), "unknowncmd")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if expected := "error: unknown command: unknowncmd\n"; stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService(), nil))

	_, stderr, code := run(t, d, t.TempDir(), "--quiet")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if expected := "error: unknown command: --quiet\n"; stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	calls := 0
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService(), &calls))

	stdout, stderr, code := run(t, d, t.TempDir(), "help")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("expected help output to contain 'Usage:'")
	}
	if calls != 0 {
		t.Error("help must not create a backend")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService(), nil))

	stdout, stderr, code := run(t, d, t.TempDir(), "version")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "taskboard 0.1.0\n" {
		t.Errorf("expected 'taskboard 0.1.0\\n', got %q", stdout)
	}
}

func TestDispatcher_FlagErrors(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService(), nil))

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"help", "--unknown"}, "error: unknown flag: -unknown\n"},
		{[]string{"add", "--title"}, "error: flag needs an argument: -title\n"},
		{[]string{"show", "--", "-3"}, "error: unknown flag: -3\n"},
	}
	for _, tt := range tests {
		_, stderr, code := run(t, d, t.TempDir(), tt.args...)
		if code != exitcode.UserError {
			t.Errorf("%v: expected exit code %d, got %d", tt.args, exitcode.UserError, code)
		}
		if stderr != tt.want {
			t.Errorf("%v: expected %q, got %q", tt.args, tt.want, stderr)
		}
	}
}

func TestDispatcher_FlagsAfterPositional(t *testing.T) {
	svc := testutil.NewSeededFakeService()
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc, nil))
	dir := t.TempDir()

	stdout, stderr, code := run(t, d, dir, "edit", "1", "--title", "Renamed")
	if code != exitcode.Success {
		t.Fatalf("edit failed: %d %q", code, stderr)
	}
	if !strings.HasPrefix(stdout, "ok\n") {
		t.Errorf("expected ok, got %q", stdout)
	}
	if got := svc.Tasks()[0].Title; got != "Renamed" {
		t.Errorf("expected title %q, got %q", "Renamed", got)
	}

	if _, stderr, code := run(t, d, dir, "add", "--quiet", "Buy", "milk", "--description", "2 litres"); code != exitcode.Success {
		t.Fatalf("add failed: %d %q", code, stderr)
	}
	tasks := svc.Tasks()
	want := service.Task{ID: 4, Title: "Buy milk", Description: "2 litres", Status: service.StatusTodo}
	if got := tasks[len(tasks)-1]; got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}

	if _, stderr, code := run(t, d, dir, "status", "2", "--quiet", "done"); code != exitcode.Success {
		t.Fatalf("status failed: %d %q", code, stderr)
	}
	if got := svc.Tasks()[1].Status; got != service.StatusDone {
		t.Errorf("expected status done, got %s", got)
	}
}

func TestDispatcher_TerminatorEndsFlags(t *testing.T) {
	svc := testutil.NewFakeService()
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc, nil))

	if _, stderr, code := run(t, d, t.TempDir(), "add", "--quiet", "-d", "x", "fix", "--", "--title", "flag"); code != exitcode.Success {
		t.Fatalf("add failed: %d %q", code, stderr)
	}
	if got := svc.Tasks()[0].Title; got != "fix --title flag" {
		t.Errorf("expected literal title, got %q", got)
	}
}

func TestDispatcher_ExtraArgumentsRejected(t *testing.T) {
	svc := testutil.NewSeededFakeService()
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc, nil))

	stdout, stderr, code := run(t, d, t.TempDir(), "done", "1", "2")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if want := "error: unexpected argument: 2\n"; stderr != want {
		t.Errorf("expected %q, got %q", want, stderr)
	}
	for _, task := range svc.Tasks() {
		if task.ID != 3 && task.Status == service.StatusDone {
			t.Errorf("task %d should be unchanged", task.ID)
		}
	}
}

func TestDispatcher_NoArgsListsTasks(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewSeededFakeService(), nil))

	var stdout, stderr bytes.Buffer
	code := d.Run(context.Background(), nil, &stdout, &stderr)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%q)", exitcode.Success, code, stderr.String())
	}
	want := "   1  todo         Task 1\n   2  in-progress  Task 2\n   3  done         Task 3\n"
	if stdout.String() != want {
		t.Errorf("expected %q, got %q", want, stdout.String())
	}
}

func TestDispatcher_BackendIsReused(t *testing.T) {
	calls := 0
	svc := testutil.NewFakeService()
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc, &calls))
	dir := t.TempDir()

	if _, stderr, code := run(t, d, dir, "add", "--quiet", "-d", "x", "first"); code != exitcode.Success {
		t.Fatalf("add failed: %d %q", code, stderr)
	}
	stdout, _, code := run(t, d, dir, "ls")
	if code != exitcode.Success {
		t.Fatalf("ls failed: %d", code)
	}
	if stdout != "   1  todo         first\n" {
		t.Errorf("unexpected list %q", stdout)
	}
	if calls != 1 {
		t.Errorf("expected one backend creation, got %d", calls)
	}
}

func TestDispatcher_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.YAMLFile), []byte("backend: nope\n"), 0600); err != nil {
		t.Fatal(err)
	}
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService(), nil))

	_, stderr, code := run(t, d, dir, "list")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if want := "error: invalid config: unknown backend: nope\n"; stderr != want {
		t.Errorf("expected %q, got %q", want, stderr)
	}
}

func TestDispatcher_GoogleTasksNeedsLogin(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.YAMLFile), []byte("backend: googletasks\n"), 0600); err != nil {
		t.Fatal(err)
	}
	calls := 0
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService(), &calls))

	_, stderr, code := run(t, d, dir, "list")
	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.HasPrefix(stderr, "error: oauth_client.json not found in ") {
		t.Errorf("unexpected stderr %q", stderr)
	}

	if err := os.WriteFile(filepath.Join(dir, config.OAuthClientFile), []byte("{}"), 0600); err != nil {
		t.Fatal(err)
	}
	_, stderr, code = run(t, d, dir, "list")
	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if want := "error: not logged in (run: taskboard login)\n"; stderr != want {
		t.Errorf("expected %q, got %q", want, stderr)
	}
	if calls != 0 {
		t.Error("factory must not be called before the pre-flight checks pass")
	}
}

func TestDispatcher_FactoryErrors(t *testing.T) {
	tests := []struct {
		err  error
		code int
		want string
	}{
		{errors.New("invalid token.json: EOF"), exitcode.AuthError, "error: auth error: invalid token.json: EOF\n"},
		{errors.New("dial tcp: refused"), exitcode.BackendError, "error: backend error: dial tcp: refused\n"},
	}
	for _, tt := range tests {
		factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
			return nil, tt.err
		}
		d := cli.NewDispatcher(commands.DefaultRegistry, factory)

		_, stderr, code := run(t, d, t.TempDir(), "list")
		if code != tt.code {
			t.Errorf("expected exit code %d, got %d", tt.code, code)
		}
		if stderr != tt.want {
			t.Errorf("expected %q, got %q", tt.want, stderr)
		}
	}
}

func TestDispatcher_DebugLogsToStderr(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewSeededFakeService(), nil))

	_, stderr, code := run(t, d, t.TempDir(), "list", "--debug")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.Contains(stderr, "level=DEBUG") || !strings.Contains(stderr, "command=list") {
		t.Errorf("expected debug log on stderr, got %q", stderr)
	}
}

func TestDispatcher_Shell(t *testing.T) {
	svc := testutil.NewFakeService()
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc, nil))
	d.SetInput(strings.NewReader(strings.Join([]string{
		`add --description "2 litres" "Buy milk"`,
		``,
		`status 1 done`,
		`shell`,
		`nope`,
		`ls`,
		`exit`,
		`ls`,
	}, "\n")))

	stdout, stderr, code := run(t, d, t.TempDir(), "shell", "--quiet")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	want := "   1  todo         Buy milk\n" +
		"   1  done         Buy milk\n" +
		"   1  done         Buy milk\n"
	if stdout != want {
		t.Errorf("expected %q, got %q", want, stdout)
	}
	wantErr := "error: shell already running\nerror: unknown command: nope\n"
	if stderr != wantErr {
		t.Errorf("expected %q, got %q", wantErr, stderr)
	}
}

func TestDispatcher_ShellPromptAndEOF(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewSeededFakeService(), nil))
	d.SetInput(strings.NewReader("rm 2\n"))

	stdout, stderr, code := run(t, d, t.TempDir(), "shell")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	want := cli.ShellPrompt + "ok\n" + cli.ShellPrompt + "\n"
	if stdout != want {
		t.Errorf("expected %q, got %q", want, stdout)
	}
}

func TestSplitLine(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"list", []string{"list"}},
		{"  add  -t x\t-d y ", []string{"add", "-t", "x", "-d", "y"}},
		{`add "Buy milk" -d "2 litres"`, []string{"add", "Buy milk", "-d", "2 litres"}},
		{`edit -d "" 1`, []string{"edit", "-d", "", "1"}},
		{`add "say \"hi\""`, []string{"add", `say "hi"`}},
		{`a"b c"d`, []string{"ab cd"}},
	}
	for _, tt := range tests {
		got, err := cli.SplitLine(tt.line)
		if err != nil {
			t.Errorf("%q: unexpected error %v", tt.line, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%q: expected %q, got %q", tt.line, tt.want, got)
		}
	}

	if _, err := cli.SplitLine(`add "open`); !errors.Is(err, cli.ErrUnterminatedQuote) {
		t.Errorf("expected ErrUnterminatedQuote, got %v", err)
	}
}
