package infra_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wanderai/internal/infra"
)

func TestInitRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := infra.InitRedis(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	assert.Equal(t, "v", mustGet(t, mr, "k"))
}

func mustGet(t *testing.T, mr *miniredis.Miniredis, key string) string {
	t.Helper()
	v, err := mr.Get(key)
	require.NoError(t, err)
	return v
}

func TestInitRedisErrors(t *testing.T) {
	_, err := infra.InitRedis(context.Background(), "not a url")
	assert.Error(t, err)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()
	_, err = infra.InitRedis(context.Background(), "redis://"+addr)
	assert.Error(t, err)
}

func TestInitPostgresqlRequiresDSN(t *testing.T) {
	_, err := infra.InitPostgresql("")
	assert.Error(t, err)
}

func TestInitMongoRequiresURI(t *testing.T) {
	_, _, err := infra.InitMongo(context.Background(), "", "wanderai")
	assert.Error(t, err)
}
