package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infraflow-ai/infraflow/pkg/cipher"
	"github.com/infraflow-ai/infraflow/pkg/model"
)

func TestConnectRequiresURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Connect(Config{})
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestIsSQLite(t *testing.T) {
	assert.True(t, IsSQLite("sqlite://:memory:"))
	assert.True(t, IsSQLite("sqlite:///tmp/infraflow.db"))
	assert.False(t, IsSQLite("postgres://localhost/infraflow"))
}

func TestConnectSQLiteWithCipher(t *testing.T) {
	c, err := cipher.NewSymmetric(make([]byte, 32))
	require.NoError(t, err)

	database, err := Connect(Config{URL: "sqlite://:memory:", Cipher: c})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(database))

	attached, ok := cipher.FromContext(database.Statement.Context)
	assert.True(t, ok)
	assert.Equal(t, c, attached)

	p := model.Project{Name: "Wind Farm", Country: "Morocco"}
	require.NoError(t, database.Create(&p).Error)

	var count int64
	require.NoError(t, database.Model(&model.Project{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
