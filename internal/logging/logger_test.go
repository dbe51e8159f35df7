package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetState clears package globals between tests.
func resetState(t *testing.T) {
	t.Helper()
	CloseAll()
	logsDir = ""
	workspace = ""
	configMu.Lock()
	config = loggingConfig{}
	configMu.Unlock()
	logLevel = LevelInfo
	t.Cleanup(CloseAll)
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, StateDir), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, StateDir, "config.yaml"), []byte(content), 0644))
}

func readLog(t *testing.T, dir string, cat Category) string {
	t.Helper()
	date := time.Now().Format("2006-01-02")
	data, err := os.ReadFile(filepath.Join(dir, StateDir, "logs", date+"_"+string(cat)+".log"))
	require.NoError(t, err)
	return string(data)
}

func TestAllCategoriesLog(t *testing.T) {
	resetState(t)
	dir := t.TempDir()
	writeConfig(t, dir, `
logging:
  debug_mode: true
  level: debug
`)
	require.NoError(t, Initialize(dir))
	require.True(t, IsDebugMode())

	cats := []Category{CategoryBoot, CategoryStore, CategoryWorkspace, CategoryUnlock, CategoryAnswers, CategoryFramework}
	for _, c := range cats {
		Get(c).Info("hello from %s", c)
	}
	CloseAll()

	for _, c := range cats {
		assert.Contains(t, readLog(t, dir, c), "hello from "+string(c))
	}
}

func TestDebugModeOff_NoFiles(t *testing.T) {
	resetState(t)
	dir := t.TempDir()
	writeConfig(t, dir, "logging:\n  debug_mode: false\n")
	require.NoError(t, Initialize(dir))

	Store("should not be written")
	assert.False(t, IsCategoryEnabled(CategoryStore))

	_, err := os.Stat(filepath.Join(dir, StateDir, "logs"))
	assert.True(t, os.IsNotExist(err))
}

func TestMissingConfig(t *testing.T) {
	resetState(t)
	require.NoError(t, Initialize(t.TempDir()))
	assert.False(t, IsDebugMode())
}

func TestInitialize_RequiresWorkspace(t *testing.T) {
	resetState(t)
	assert.Error(t, Initialize(""))
}

func TestCategoryFilter(t *testing.T) {
	resetState(t)
	dir := t.TempDir()
	writeConfig(t, dir, `
logging:
  debug_mode: true
  categories:
    unlock: false
`)
	require.NoError(t, Initialize(dir))

	assert.False(t, IsCategoryEnabled(CategoryUnlock))
	assert.True(t, IsCategoryEnabled(CategoryAnswers), "unlisted categories stay enabled")
}

func TestLevelFilter(t *testing.T) {
	resetState(t)
	dir := t.TempDir()
	writeConfig(t, dir, `
logging:
  debug_mode: true
  level: warn
`)
	require.NoError(t, Initialize(dir))

	AnswersDebug("debug line")
	Answers("info line")
	Get(CategoryAnswers).Warn("warn line")
	CloseAll()

	out := readLog(t, dir, CategoryAnswers)
	assert.NotContains(t, out, "debug line")
	assert.NotContains(t, out, "info line")
	assert.Contains(t, out, "[WARN] warn line")
}

func TestJSONFormat(t *testing.T) {
	resetState(t)
	dir := t.TempDir()
	writeConfig(t, dir, `
logging:
  debug_mode: true
  json_format: true
`)
	require.NoError(t, Initialize(dir))

	Get(CategoryWorkspace).StructuredLog("info", "record saved", map[string]interface{}{"phase": "offre"})
	CloseAll()

	out := readLog(t, dir, CategoryWorkspace)
	assert.True(t, strings.Contains(out, `"msg":"record saved"`), out)
	assert.Contains(t, out, `"phase":"offre"`)
	assert.Contains(t, out, `"cat":"workspace"`)
}

func TestNoopLogger(t *testing.T) {
	resetState(t)
	l := Get(CategoryStore)
	assert.NotPanics(t, func() {
		l.Debug("x")
		l.Info("x")
		l.Warn("x")
		l.Error("x")
		l.StructuredLog("info", "x", nil)
	})
}

func TestTimer(t *testing.T) {
	resetState(t)
	timer := StartTimer(CategoryStore, "save")
	assert.GreaterOrEqual(t, timer.Stop(), time.Duration(0))
	assert.GreaterOrEqual(t, StartTimer(CategoryStore, "load").StopWithThreshold(time.Hour), time.Duration(0))
}
