package persistence_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"messenger-core/core/database"
	"messenger-core/core/persistence"
	"messenger-core/core/storage/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bradfitz/gomemcache/memcache"
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// exercise runs the common Store contract against s.
func exercise(t *testing.T, s persistence.Store) {
	t.Helper()
	ctx := context.Background()

	_, found, err := s.Load(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Save(ctx, "k", []byte("one")))
	require.NoError(t, s.Save(ctx, "k", []byte("two")))

	blob, found, err := s.Load(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("two"), blob)

	require.NoError(t, s.Erase(ctx, "k"))
	require.NoError(t, s.Erase(ctx, "k"))

	_, found, err = s.Load(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemory(t *testing.T) {
	exercise(t, persistence.NewMemory())
}

func TestWithPrefix(t *testing.T) {
	mem := persistence.NewMemory()
	s := persistence.WithPrefix(mem, "p:")
	exercise(t, s)

	require.NoError(t, s.Save(context.Background(), "k", []byte("v")))
	_, found, _ := mem.Load(context.Background(), "p:k")
	assert.True(t, found)
}

func TestDatabase_SQLite(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	store, err := persistence.Open(persistence.Config{Backend: persistence.BackendDatabase}, persistence.Deps{DB: db})
	require.NoError(t, err)
	exercise(t, store)
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	})
	db, err := gorm.Open(dialector, &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return db, mock
}

func TestDatabase_MySQL(t *testing.T) {
	db, sqlMock := setupMockDB(t)
	store := persistence.NewDatabase(db)
	ctx := context.Background()

	sqlMock.ExpectExec("INSERT INTO `kv_blobs`.*ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, store.Save(ctx, "new_authorizations", []byte{0x80}))

	sqlMock.ExpectQuery("SELECT \\* FROM `kv_blobs` WHERE blob_key = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"blob_key", "value", "updated_at"}).
			AddRow("new_authorizations", []byte{0x80}, time.Now()))
	blob, found, err := store.Load(ctx, "new_authorizations")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte{0x80}, blob)

	sqlMock.ExpectQuery("SELECT \\* FROM `kv_blobs`").
		WillReturnRows(sqlmock.NewRows([]string{"blob_key", "value", "updated_at"}))
	_, found, err = store.Load(ctx, "other")
	require.NoError(t, err)
	assert.False(t, found)

	sqlMock.ExpectExec("DELETE FROM `kv_blobs`").WillReturnError(errors.New("read only"))
	assert.EqualError(t, store.Erase(ctx, "other"), "failed to erase other: read only")

	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

type fakeMemcache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func (f *fakeMemcache) Set(item *memcache.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[item.Key] = item.Value
	return nil
}

func (f *fakeMemcache) Get(key string) (*memcache.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.items[key]
	if !ok {
		return nil, memcache.ErrCacheMiss
	}
	return &memcache.Item{Key: key, Value: v}, nil
}

func (f *fakeMemcache) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[key]; !ok {
		return memcache.ErrCacheMiss
	}
	delete(f.items, key)
	return nil
}

func TestMemcache(t *testing.T) {
	store, err := persistence.Open(persistence.Config{Backend: persistence.BackendMemcache, KeyPrefix: "m:"},
		persistence.Deps{Memcache: &fakeMemcache{items: map[string][]byte{}}})
	require.NoError(t, err)
	exercise(t, store)
}

func TestRedis_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond, MaxRetries: -1})
	defer client.Close()

	store := persistence.NewRedis(client)
	_, _, err := store.Load(context.Background(), "k")
	assert.Error(t, err)
}

func TestObject(t *testing.T) {
	ctx := context.Background()
	m := new(mocks.Client)
	store := persistence.NewObject(m, "state")

	m.On("PutObject", ctx, "state", "k", mock.Anything, int64(3), minio.PutObjectOptions{ContentType: "application/cbor"}).
		Return(minio.UploadInfo{}, nil)
	require.NoError(t, store.Save(ctx, "k", []byte("abc")))

	m.On("GetObject", ctx, "state", "k", minio.GetObjectOptions{}).
		Return(io.NopCloser(strings.NewReader("abc")), nil)
	blob, found, err := store.Load(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("abc"), blob)

	m.On("GetObject", ctx, "state", "gone", minio.GetObjectOptions{}).
		Return(nil, minio.ErrorResponse{Code: "NoSuchKey"})
	_, found, err = store.Load(ctx, "gone")
	require.NoError(t, err)
	assert.False(t, found)

	m.On("RemoveObject", ctx, "state", "k", minio.RemoveObjectOptions{}).Return(nil)
	require.NoError(t, store.Erase(ctx, "k"))

	m.AssertExpectations(t)
}

func TestOpen_Errors(t *testing.T) {
	_, err := persistence.Open(persistence.Config{Backend: "tape"}, persistence.Deps{})
	assert.EqualError(t, err, `unknown persistence backend "tape"`)

	for _, backend := range []string{
		persistence.BackendDatabase, persistence.BackendRedis,
		persistence.BackendMemcache, persistence.BackendStorage,
	} {
		_, err := persistence.Open(persistence.Config{Backend: backend}, persistence.Deps{})
		assert.Error(t, err, backend)
	}
}

type slowStore struct {
	*persistence.Memory
	release chan struct{}
}

func (s *slowStore) Save(ctx context.Context, key string, blob []byte) error {
	<-s.release
	return s.Memory.Save(ctx, key, blob)
}

func TestQueue_ReadYourWritesAndFlush(t *testing.T) {
	mem := persistence.NewMemory()
	backing := &slowStore{Memory: mem, release: make(chan struct{})}
	q := persistence.NewQueue(backing, zap.NewNop())
	ctx := context.Background()

	q.Save("k", []byte("one"))
	q.Save("k", []byte("two"))

	blob, found, err := q.Load(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("two"), blob)

	close(backing.release)
	require.NoError(t, q.Flush(ctx))

	blob, found, err = mem.Load(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("two"), blob)

	q.Erase("k")
	q.Close()
	_, found, _ = mem.Load(ctx, "k")
	assert.False(t, found)

	// Writes after close are dropped.
	q.Save("late", []byte("x"))
	_, found, _ = q.Load(ctx, "late")
	assert.False(t, found)
}
