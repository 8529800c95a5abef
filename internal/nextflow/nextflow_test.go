package nextflow

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/alejandrogzi/gofq/internal/errors"
	"github.com/alejandrogzi/gofq/internal/testutil"
)

// chtemp runs the test from a fresh directory, since the generated
// artifacts land in the working directory.
func chtemp(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub tools require a POSIX shell")
	}
	dir := t.TempDir()
	old, err := os.Getwd()
	testutil.RequireNoError(t, err, "Getwd")
	testutil.RequireNoError(t, os.Chdir(dir), "Chdir")
	t.Cleanup(func() { os.Chdir(old) })
	return dir
}

func TestDistributeRequiresList(t *testing.T) {
	err := Distribute([]string{"SRR000001"}, Options{})
	if err == nil {
		t.Fatal("expected an error for a single accession")
	}
	testutil.AssertTrue(t, errors.IsKind(err, errors.KindInput), "single accession is an input error")
}

func TestDistributeRunsAndCleansUp(t *testing.T) {
	chtemp(t)
	binDir := t.TempDir()
	captured := filepath.Join(binDir, "joblist.captured")
	argsFile := filepath.Join(binDir, "args")

	// The stub snapshots the joblist before cleanup removes it.
	testutil.StubTool(t, binDir, "nextflow", fmt.Sprintf(
		`echo "$@" > %q
cp joblist.txt %q`, argsFile, captured))
	testutil.PrependPath(t, binDir)

	accessions := []string{"SRR000001", "ERR000002", "DRR000003"}
	err := Distribute(accessions, Options{
		Executor:    "slurm",
		Queue:       "short",
		Threads:     4,
		MaxAttempts: 3,
		SleepSecs:   5,
	})
	testutil.RequireNoError(t, err, "Distribute")

	joblist, err := os.ReadFile(captured)
	testutil.RequireNoError(t, err, "read captured joblist")
	testutil.AssertEqual(t, string(joblist), strings.Join(accessions, "\n"), "joblist content")

	args, err := os.ReadFile(argsFile)
	testutil.RequireNoError(t, err, "read recorded args")
	testutil.AssertTrue(t, strings.Contains(string(args), "run "+scriptFile), "nextflow runs the generated script")

	for _, f := range []string{scriptFile, configFile, joblistFile} {
		if _, err := os.Stat(f); !os.IsNotExist(err) {
			t.Errorf("artifact %s should be removed after the run", f)
		}
	}
}

func TestDistributeToolFailureKeepsArtifacts(t *testing.T) {
	chtemp(t)
	binDir := t.TempDir()
	testutil.StubTool(t, binDir, "nextflow", "exit 1")
	testutil.PrependPath(t, binDir)

	err := Distribute([]string{"SRR000001", "ERR000002"}, Options{Executor: "local"})
	if err == nil {
		t.Fatal("expected an error when nextflow fails")
	}
	testutil.AssertTrue(t, errors.IsKind(err, errors.KindTransient), "scheduler failure is transient")

	// A failed run leaves the generated files in place for inspection.
	if _, err := os.Stat(joblistFile); err != nil {
		t.Errorf("joblist should survive a failed run: %v", err)
	}

	testutil.RequireNoError(t, Cleanup(), "Cleanup")
	if _, err := os.Stat(joblistFile); !os.IsNotExist(err) {
		t.Error("Cleanup should remove the joblist")
	}
}

func TestScriptAndConfigContents(t *testing.T) {
	chtemp(t)

	testutil.RequireNoError(t, writeScript(7, 12), "writeScript")
	testutil.RequireNoError(t, writeConfig("sge", "long", 8), "writeConfig")

	script, err := os.ReadFile(scriptFile)
	testutil.RequireNoError(t, err, "read script")
	testutil.AssertTrue(t, strings.Contains(string(script), "--max-attempts 7"), "script carries the retry budget")
	testutil.AssertTrue(t, strings.Contains(string(script), "--sleep 12"), "script carries the retry delay")

	config, err := os.ReadFile(configFile)
	testutil.RequireNoError(t, err, "read config")
	testutil.AssertTrue(t, strings.Contains(string(config), "executor = 'sge'"), "config carries the executor")
	testutil.AssertTrue(t, strings.Contains(string(config), "queue = 'long'"), "config carries the queue")
	testutil.AssertTrue(t, strings.Contains(string(config), "cpus = 8"), "config carries the cpu count")
}
