package jsonfile

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"msgboard/factory"
	"msgboard/pkg/message"
)

func newTestStore(t *testing.T) *JSONFile {
	t.Helper()
	return NewJSONFile(filepath.Join(t.TempDir(), "data.json"), slog.Default())
}

func Test_Create_Assigns_Sequential_Ids(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)

	for i, sender := range []string{"Alice", "Bob", "Clara"} {
		stored, err := store.Create(factory.Message{
			Posted:  "2024-01-01 10:00:00",
			Sender:  sender,
			Content: "hello",
		})
		req.NoError(err)
		req.Equal(i+1, stored.ID)
	}
}

func Test_Create_After_Deleting_Max_Id(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)

	for i := 0; i < 3; i++ {
		_, err := store.Create(factory.Message{Sender: "Alice"})
		req.NoError(err)
	}
	affected, err := store.Delete(3)
	req.NoError(err)
	req.True(affected)

	// Next id follows the remaining maximum, id 3 happens to be free again.
	stored, err := store.Create(factory.Message{Sender: "Bob"})
	req.NoError(err)
	req.Equal(3, stored.ID)
}

func Test_GetAllSorted_Orders_Newest_First(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)

	posted := []string{"2024-01-01 10:00:00", "2024-01-02 09:00:00", "2023-12-31 23:59:59"}
	for _, p := range posted {
		_, err := store.Create(factory.Message{Posted: p, Sender: "Alice"})
		req.NoError(err)
	}

	sorted := store.GetAllSorted()
	req.Len(sorted, 3)
	req.Equal("2024-01-02 09:00:00", sorted[0].Posted)
	req.Equal("2024-01-01 10:00:00", sorted[1].Posted)
	req.Equal("2023-12-31 23:59:59", sorted[2].Posted)
}

func Test_GetByID(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)

	stored, err := store.Create(factory.Message{Sender: "Alice", Content: "first"})
	req.NoError(err)

	found, err := store.GetByID(stored.ID)
	req.NoError(err)
	req.Equal(stored, found)
}

func Test_GetByID_Missing_Id(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)

	for _, sender := range []string{"Alice", "Bob", "Clara"} {
		_, err := store.Create(factory.Message{Sender: sender})
		req.NoError(err)
	}

	_, err := store.GetByID(99)
	req.ErrorIs(err, message.ErrNotFound)
}

func Test_Update_Replaces_Record(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)

	stored, err := store.Create(factory.Message{Sender: "Alice", Content: "draft"})
	req.NoError(err)

	stored.Content = "final"
	affected, err := store.Update(stored)
	req.NoError(err)
	req.True(affected)

	found, err := store.GetByID(stored.ID)
	req.NoError(err)
	req.Equal("final", found.Content)
}

func Test_Update_Missing_Id_Is_Noop(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)

	affected, err := store.Update(factory.Message{ID: 42, Sender: "Mallory"})
	req.NoError(err)
	req.False(affected)
	req.Empty(store.GetAll())
}

func Test_Delete_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)

	stored, err := store.Create(factory.Message{Sender: "Alice"})
	req.NoError(err)
	_, err = store.Create(factory.Message{Sender: "Bob"})
	req.NoError(err)

	affected, err := store.Delete(stored.ID)
	req.NoError(err)
	req.True(affected)

	// Deleting the same id again changes nothing and reports no error.
	for i := 0; i < 2; i++ {
		affected, err = store.Delete(stored.ID)
		req.NoError(err)
		req.False(affected)
		req.Len(store.GetAll(), 1)
	}
}

func Test_Missing_File_Reads_Empty(t *testing.T) {
	req := require.New(t)
	store := NewJSONFile(filepath.Join(t.TempDir(), "nowhere.json"), slog.Default())
	req.Empty(store.GetAll())
}

func Test_Malformed_File_Reads_Empty(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "data.json")
	req.NoError(os.WriteFile(path, []byte("{not json"), 0o644))

	store := NewJSONFile(path, slog.Default())
	req.Empty(store.GetAll())
}

func Test_Collection_Survives_Reopen(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "data.json")

	store := NewJSONFile(path, slog.Default())
	stored, err := store.Create(factory.Message{
		Posted:  "2024-01-01 10:00:00",
		Sender:  "Alice",
		Content: "line one\nline two",
	})
	req.NoError(err)

	reopened := NewJSONFile(path, slog.Default())
	req.Equal([]factory.Message{stored}, reopened.GetAll())
}

func Test_Concurrent_Creates_Get_Distinct_Ids(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)

	const writers = 10
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Create(factory.Message{Sender: "Alice"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		req.NoError(err)
	}

	msgs := store.GetAll()
	req.Len(msgs, writers)
	seen := map[int]bool{}
	for _, m := range msgs {
		req.GreaterOrEqual(m.ID, 1)
		req.LessOrEqual(m.ID, writers)
		req.False(seen[m.ID], "id %d assigned twice", m.ID)
		seen[m.ID] = true
	}
}
