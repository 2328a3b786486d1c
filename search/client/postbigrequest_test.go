package client_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x-research-team/srx-framework/search/client"
	"github.com/x-research-team/srx-framework/search/query"
)

func TestPostBigRequest_ConvertsLongGetToPost(t *testing.T) {
	t.Parallel()

	tr := &stubTransport{resp: &query.Response{StatusCode: 200, Body: []byte(`{"responseHeader":{}}`)}}
	c := newClient(t, tr)
	require.NoError(t, c.RegisterPlugin("big", client.PluginTypePostBigRequest, query.Config{"maxquerystringlength": 32}))

	sq := &query.Select{Q: strings.Repeat("term ", 50), Rows: 10}
	_, err := c.Execute(context.Background(), sq)
	require.NoError(t, err)

	require.NotNil(t, tr.lastReq)
	assert.Equal(t, http.MethodPost, tr.lastReq.Method, "Длинный GET должен быть преобразован в POST")
	assert.Empty(t, tr.lastReq.Params, "Параметры должны переехать в тело")
	assert.NotEmpty(t, tr.lastReq.Body)
	assert.Equal(t, "application/x-www-form-urlencoded", tr.lastReq.Header.Get("Content-Type"))
}

func TestPostBigRequest_LeavesShortGetAlone(t *testing.T) {
	t.Parallel()

	tr := &stubTransport{resp: &query.Response{StatusCode: 200, Body: []byte(`{"responseHeader":{}}`)}}
	c := newClient(t, tr)
	require.NoError(t, c.RegisterPlugin("big", client.PluginTypePostBigRequest, nil))

	_, err := c.Execute(context.Background(), &query.Select{Q: "короткий", Rows: 1})
	require.NoError(t, err)

	require.NotNil(t, tr.lastReq)
	assert.Equal(t, http.MethodGet, tr.lastReq.Method, "Короткий GET должен остаться без изменений")
	assert.NotEmpty(t, tr.lastReq.Params)
}

func TestCustomizeRequest_InjectsParamsAndHeaders(t *testing.T) {
	t.Parallel()

	tr := &stubTransport{resp: &query.Response{StatusCode: 200, Body: []byte(`{"responseHeader":{}}`)}}
	c := newClient(t, tr)

	require.NoError(t, c.RegisterPlugin("customize", client.PluginTypeCustomizeRequest, query.Config{
		"params":  map[string]string{"debugQuery": "true"},
		"headers": map[string]string{"X-Api-Key": "secret"},
	}))

	_, err := c.Execute(context.Background(), &query.Ping{})
	require.NoError(t, err)

	require.NotNil(t, tr.lastReq)
	assert.Equal(t, "true", tr.lastReq.Params.Get("debugQuery"), "Фиксированный параметр должен попадать в каждый запрос")
	assert.Equal(t, "secret", tr.lastReq.Header.Get("X-Api-Key"), "Фиксированный заголовок должен попадать в каждый запрос")
}

func TestCustomizeRequest_ProgrammaticConfiguration(t *testing.T) {
	t.Parallel()

	tr := &stubTransport{resp: &query.Response{StatusCode: 200, Body: []byte(`{"responseHeader":{}}`)}}
	c := newClient(t, tr)

	p := client.NewCustomizeRequest().AddParam("omitHeader", "true")
	require.NoError(t, c.RegisterPlugin("customize", p, nil))

	_, err := c.Execute(context.Background(), &query.Ping{})
	require.NoError(t, err)

	require.NotNil(t, tr.lastReq)
	assert.Equal(t, "true", tr.lastReq.Params.Get("omitHeader"))
}
