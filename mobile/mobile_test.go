package mobile

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartStopServer(t *testing.T) {
	addr, err := StartServer(t.TempDir(), "0", 1)
	require.NoError(t, err)

	_, err = StartServer(t.TempDir(), "0", 1)
	assert.Error(t, err, "second start must fail")

	resp, err := http.Post("http://"+addr+"/api/games", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	require.NoError(t, StopServer())
	require.NoError(t, StopServer())

	_, err = http.Get("http://" + addr + "/api/games/x")
	assert.Error(t, err)
}
