package server

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientGenerate(t *testing.T) {
	s := testServer(t)
	ts := httptest.NewServer(s.Engine())
	defer ts.Close()

	cli := NewClient(ts.URL + "/")
	resp, err := cli.Generate(context.Background(), smallPreset())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, 480, resp.Triangles)
	assert.Equal(t, ts.URL+"/api/lens/"+resp.ID, cli.FileURL(resp))
}

func TestClientGenerateBadParams(t *testing.T) {
	s := testServer(t)
	ts := httptest.NewServer(s.Engine())
	defer ts.Close()

	p := smallPreset()
	p.Divisions = -1
	_, err := NewClient(ts.URL).Generate(context.Background(), p)
	assert.Error(t, err)
}
