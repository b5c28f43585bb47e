package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot determine home directory")
	}

	store, err := NewConfigStore("")

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(home, ".slides", "config.toml"), store.Path())

	// Cleanup
	_ = os.Remove(store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	err = store.Set("embedding.backend", "ollama")
	require.NoError(t, err)

	val, ok := store.Get("embedding.backend")
	assert.True(t, ok)
	assert.Equal(t, "ollama", val)
}

func TestConfigStore_GetString(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	err = store.Set("embedding.model", "nomic-embed-text")
	require.NoError(t, err)

	assert.Equal(t, "nomic-embed-text", store.GetString("embedding.model"))

	// Missing key
	assert.Equal(t, "", store.GetString("embedding.api_key"))

	// Wrong type
	err = store.Set("embedding.dimensions", 384)
	require.NoError(t, err)
	assert.Equal(t, "", store.GetString("embedding.dimensions"))
}

func TestConfigStore_GetInt(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	err = store.Set("embedding.dimensions", 768)
	require.NoError(t, err)

	assert.Equal(t, 768, store.GetInt("embedding.dimensions"))

	// Missing key
	assert.Equal(t, 0, store.GetInt("retrieval.limit"))

	// Wrong type
	err = store.Set("embedding.backend", "hash")
	require.NoError(t, err)
	assert.Equal(t, 0, store.GetInt("embedding.backend"))
}

func TestConfigStore_GetInt_Int64FromTOML(t *testing.T) {
	tmpDir := t.TempDir()

	// Values loaded from disk arrive as int64.
	content := []byte("[embedding]\ndimensions = 1536\n")
	err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), content, 0600)
	require.NoError(t, err)

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, 1536, store.GetInt("embedding.dimensions"))
}

func TestConfigStore_GetBool(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	err = store.Set("ingest.watch", true)
	require.NoError(t, err)
	assert.True(t, store.GetBool("ingest.watch"))

	err = store.Set("ingest.watch", false)
	require.NoError(t, err)
	assert.False(t, store.GetBool("ingest.watch"))

	// Missing key
	assert.False(t, store.GetBool("nonexistent"))

	// Wrong type
	err = store.Set("embedding.backend", "openai")
	require.NoError(t, err)
	assert.False(t, store.GetBool("embedding.backend"))
}

func TestConfigStore_Get_NotFound(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	val, ok := store.Get("embedding.base_url")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_Persistence(t *testing.T) {
	tmpDir := t.TempDir()

	store1, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store1.Set("embedding.backend", "openai"))
	require.NoError(t, store1.Set("embedding.model", "text-embedding-3-small"))
	require.NoError(t, store1.Set("embedding.dimensions", 1536))
	require.NoError(t, store1.Set("ingest.watch", true))

	// A fresh instance loads from the same file.
	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "openai", store2.GetString("embedding.backend"))
	assert.Equal(t, "text-embedding-3-small", store2.GetString("embedding.model"))
	assert.Equal(t, 1536, store2.GetInt("embedding.dimensions"))
	assert.True(t, store2.GetBool("ingest.watch"))
}

func TestConfigStore_Load_FlattensNestedTables(t *testing.T) {
	tmpDir := t.TempDir()

	// A hand-edited config file uses TOML tables; readers use dotted keys.
	content := []byte(`[embedding]
backend = "ollama"
model = "nomic-embed-text"
base_url = "http://localhost:11434"
dimensions = 768
`)
	err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), content, 0600)
	require.NoError(t, err)

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "ollama", store.GetString("embedding.backend"))
	assert.Equal(t, "nomic-embed-text", store.GetString("embedding.model"))
	assert.Equal(t, "http://localhost:11434", store.GetString("embedding.base_url"))
	assert.Equal(t, 768, store.GetInt("embedding.dimensions"))
}

func TestConfigStore_Load_NonExistent(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	// No config file yet: start empty, no error.
	val, ok := store.Get("embedding.backend")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()

	err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte{}, 0600)
	require.NoError(t, err)

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	val, ok := store.Get("embedding.backend")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_CommentOnlyFile(t *testing.T) {
	tmpDir := t.TempDir()

	content := []byte("# slides config\n\n")
	err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), content, 0600)
	require.NoError(t, err)

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	val, ok := store.Get("embedding.backend")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	err = store.Set("embedding.api_key", "sk-test")
	require.NoError(t, err)

	// API keys live in this file; it must not be group or world readable.
	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_OverwriteValue(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("embedding.backend", "hash"))
	assert.Equal(t, "hash", store.GetString("embedding.backend"))

	require.NoError(t, store.Set("embedding.backend", "openai"))
	assert.Equal(t, "openai", store.GetString("embedding.backend"))
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	// A path under /dev/null cannot be created.
	store, err := NewConfigStore("/dev/null/cannot/create/dirs")

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNewConfigStore_CorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()

	err := os.WriteFile(filepath.Join(tmpDir, "config.toml"),
		[]byte("this is not valid TOML {{{[["), 0600)
	require.NoError(t, err)

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_Load_ReadFileError(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	err = store.Set("embedding.backend", "ollama")
	require.NoError(t, err)

	err = os.Chmod(store.Path(), 0000)
	require.NoError(t, err)

	err = store.Load()
	assert.Error(t, err)
	assert.False(t, os.IsNotExist(err))

	_ = os.Chmod(store.Path(), 0600)
}

func TestConfigStore_Set_WriteFileError(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("embedding.backend", "ollama"))

	// Replace the file with a directory so the next write fails.
	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0700))

	err = store.Set("embedding.model", "nomic-embed-text")
	assert.Error(t, err)
}

func TestConfigStore_SetUnmarshallableValue(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	// Channels cannot be marshalled to TOML.
	err = store.Set("bad", make(chan int))
	assert.Error(t, err)
}

func TestNewConfigStore_WithNestedDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	nestedPath := filepath.Join(tmpDir, "nested", "deep", "path")

	store, err := NewConfigStore(nestedPath)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(nestedPath, "config.toml"), store.Path())

	info, err := os.Stat(nestedPath)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
}

func TestConfigStore_Concurrency(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(id int) {
			key := "embedding.dim" + string(rune('0'+id))
			_ = store.Set(key, id)
			_ = store.GetInt(key)
			_ = store.GetString(key)
			_ = store.GetBool(key)
			_, _ = store.Get(key)
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}
