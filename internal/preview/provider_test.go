package preview

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"snapptale/internal/model"
	"snapptale/internal/storage"
	"snapptale/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.SetOutput(os.Stderr)
	goleak.VerifyTestMain(m)
}

// countingStore 记录每次撤销的句柄
type countingStore struct {
	*storage.MemoryStorage
	deleted []string
}

func newCountingStore() *countingStore {
	return &countingStore{MemoryStorage: storage.NewMemoryStorage()}
}

func (c *countingStore) Delete(ref string) error {
	c.deleted = append(c.deleted, ref)
	return c.MemoryStorage.Delete(ref)
}

func photo(n int) *model.Photo {
	return &model.Photo{Filename: fmt.Sprintf("p%d.png", n), MIMEType: "image/png", Data: []byte{byte(n)}}
}

func TestProvider_SequenceOfSelections(t *testing.T) {
	// nil 表示清空
	sequences := [][]*model.Photo{
		{photo(1)},
		{photo(1), photo(2), photo(3)},
		{photo(1), nil, photo(2)},
		{nil, nil, photo(1), nil},
		{photo(1), photo(1), nil, nil, photo(2)},
	}

	for i, seq := range sequences {
		t.Run(fmt.Sprintf("seq%d", i), func(t *testing.T) {
			store := newCountingStore()
			p := NewProvider(store)

			prev := ""
			for _, ph := range seq {
				before := len(store.deleted)
				ref, err := p.Set(ph)
				require.NoError(t, err)

				revoked := store.deleted[before:]
				if prev == "" {
					assert.Empty(t, revoked, "nothing to revoke")
				} else {
					assert.Equal(t, []string{prev}, revoked, "exactly the previous reference is revoked")
				}
				assert.NotContains(t, store.deleted, ref, "the live reference is never revoked")

				if ph == nil {
					assert.Empty(t, ref)
					assert.Equal(t, 0, store.Len())
				} else {
					require.NotEmpty(t, ref)
					got, err := store.Get(ref)
					require.NoError(t, err)
					assert.Same(t, ph, got)
					assert.Equal(t, 1, store.Len())
				}
				assert.Equal(t, ref, p.Current())
				prev = ref
			}

			require.NoError(t, p.Close())
			assert.Equal(t, 0, store.Len(), "teardown revokes the current reference")
			if prev != "" {
				assert.Equal(t, prev, store.deleted[len(store.deleted)-1])
			}
		})
	}
}

func TestProvider_Closed(t *testing.T) {
	p := NewProvider(storage.NewMemoryStorage())
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	_, err := p.Set(photo(1))
	assert.ErrorIs(t, err, ErrClosed)
}

func TestProvider_ToleratesExternallyRevokedReference(t *testing.T) {
	store := storage.NewMemoryStorage()
	p := NewProvider(store)

	ref, err := p.Set(photo(1))
	require.NoError(t, err)
	require.NoError(t, store.Delete(ref))

	_, err = p.Set(photo(2))
	assert.NoError(t, err)
}
