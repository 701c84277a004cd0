package workflows

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/PolarWolf314/nova/internal/audit"
	"github.com/PolarWolf314/nova/internal/secrets"
	"github.com/PolarWolf314/nova/internal/store"
)

const testPassword = "pw"

// scriptedPrompter answers prompts with its passwords in order, repeating the last one.
type scriptedPrompter struct {
	passwords []string
	calls     int
}

func (p *scriptedPrompter) ReadPassword(prompt string) (string, error) {
	if len(p.passwords) == 0 {
		return "", errors.New("no password available")
	}
	i := p.calls
	if i >= len(p.passwords) {
		i = len(p.passwords) - 1
	}
	p.calls++
	return p.passwords[i], nil
}

type testEnv struct {
	vault   *Vault
	store   *store.SQLStore
	root    string
	audited []audit.Entry
}

func newTestEngine(t *testing.T, scheme secrets.Scheme) *secrets.Engine {
	t.Helper()
	cfg := secrets.EngineConfig{Nonce: []byte("unique nonce"), Scheme: scheme, ScryptN: 1 << 4}

	bootstrap, err := secrets.NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	reference, err := bootstrap.Encrypt([]byte(testPassword), testPassword)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	cfg.ReferenceCiphertext = reference
	engine, err := secrets.NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	return engine
}

func newTestEnv(t *testing.T, password string) *testEnv {
	t.Helper()
	root := t.TempDir()

	s, err := store.OpenSQLite(context.Background(), filepath.Join(root, "db", "nova.db"))
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	env := &testEnv{store: s, root: filepath.Join(root, "Projects")}
	env.vault = &Vault{
		Secrets:     s,
		Configs:     s,
		Engine:      newTestEngine(t, secrets.SchemeSealed),
		Prompter:    &scriptedPrompter{passwords: []string{password}},
		ProjectsDir: env.root,
		Audit:       func(e audit.Entry) { env.audited = append(env.audited, e) },
	}
	return env
}

// auth returns an Authorization for project, with the working directory created on disk.
func (env *testEnv) auth(t *testing.T, project string, folder *string) Authorization {
	t.Helper()
	workDir := filepath.Join(env.root, project)
	if folder != nil {
		workDir = filepath.Join(workDir, filepath.FromSlash(*folder))
	}
	if err := os.MkdirAll(workDir, 0700); err != nil {
		t.Fatalf("failed to create work dir: %v", err)
	}
	return Authorization{Project: project, Folder: folder, WorkDir: workDir}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
}

func strPtr(s string) *string { return &s }
