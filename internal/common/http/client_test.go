package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultClientConfig(t *testing.T) {
	config := DefaultClientConfig()

	assert.Equal(t, 30*time.Second, config.ConnectTimeout)
	assert.Equal(t, 60*time.Second, config.ReadTimeout)
	assert.Zero(t, config.Timeout)
	assert.Equal(t, 10, config.MaxIdleConnsPerHost)
	assert.Nil(t, config.Transport)
}

func TestNewHTTPClient_DerivesTimeouts(t *testing.T) {
	client := NewHTTPClient(WithConnectTimeout(2*time.Second), WithReadTimeout(5*time.Second))

	assert.Equal(t, 7*time.Second, client.Timeout)

	transport, ok := client.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Equal(t, 2*time.Second, transport.TLSHandshakeTimeout)
	assert.Equal(t, 5*time.Second, transport.ResponseHeaderTimeout)
	assert.Nil(t, transport.TLSClientConfig)
}

func TestNewHTTPClient_ExplicitTimeoutAndInsecure(t *testing.T) {
	client := NewHTTPClient(WithTimeout(time.Second), WithInsecureSkipVerify(), WithMaxIdleConnsPerHost(3))

	assert.Equal(t, time.Second, client.Timeout)
	transport := client.Transport.(*http.Transport)
	require.NotNil(t, transport.TLSClientConfig)
	assert.True(t, transport.TLSClientConfig.InsecureSkipVerify)
	assert.Equal(t, 3, transport.MaxIdleConnsPerHost)
}

func TestNewHTTPClient_CustomTransport(t *testing.T) {
	custom := &http.Transport{}
	client := NewHTTPClient(WithTransport(custom))
	assert.Same(t, custom, client.Transport)
}

func TestNewHTTPClient_ReadTimeoutAppliesToSlowServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(500 * time.Millisecond):
		case <-r.Context().Done():
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewHTTPClient(WithConnectTimeout(time.Second), WithReadTimeout(50*time.Millisecond))
	_, err := client.Get(server.URL)
	assert.Error(t, err)
}

func TestNewHTTPClient_Succeeds(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	resp, err := NewHTTPClient().Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
