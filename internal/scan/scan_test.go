package scan

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conteo-station/internal/domain/model"
	"conteo-station/internal/i18n"
	"conteo-station/internal/session"
)

func TestClasificarFalla(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want string
	}{
		{"platform permission error", "NotAllowedError", i18n.KeyEscanerPermisoDenegado},
		{"plain permission id", "permiso_denegado", i18n.KeyEscanerPermisoDenegado},
		{"platform missing device", "NotFoundError", i18n.KeyEscanerNoEncontrado},
		{"platform busy device", "NotReadableError", i18n.KeyEscanerOcupado},
		{"unknown id falls back to generic", "WeirdVendorError", i18n.KeyEscanerFallaGenerica},
		{"empty id falls back to generic", "", i18n.KeyEscanerFallaGenerica},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClasificarFalla(tt.id))
		})
	}
}

// dialHub spins up a websocket endpoint backed by the hub and dials it.
func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		hub.Agregar(conn)
		go hub.Escuchar(conn)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHubDecodeFeed(t *testing.T) {
	hub := NewHub(4, zerolog.Nop())
	conn := dialHub(t, hub)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"tipo":"codigo","codigo":"ABC","dispositivo":"pistola-1"}`)))

	select {
	case ev := <-hub.Eventos():
		assert.Equal(t, "ABC", ev.Codigo)
		assert.Equal(t, "pistola-1", ev.Dispositivo)
		assert.False(t, ev.Recibido.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("no decode event received")
	}
}

func TestHubClassifiesDeviceFailures(t *testing.T) {
	hub := NewHub(4, zerolog.Nop())
	conn := dialHub(t, hub)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"tipo":"falla","falla":"NotAllowedError","dispositivo":"kiosco-2"}`)))

	select {
	case clave := <-hub.Fallas():
		assert.Equal(t, i18n.KeyEscanerPermisoDenegado, clave)
	case <-time.After(2 * time.Second):
		t.Fatal("no classified failure received")
	}
}

func TestHubSkipsMalformedAndEmptyMessages(t *testing.T) {
	hub := NewHub(4, zerolog.Nop())
	conn := dialHub(t, hub)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`not json`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"tipo":"codigo","codigo":""}`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"tipo":"codigo","codigo":"DEF"}`)))

	select {
	case ev := <-hub.Eventos():
		// Only the well-formed decode made it through.
		assert.Equal(t, "DEF", ev.Codigo)
	case <-time.After(2 * time.Second):
		t.Fatal("no decode event received")
	}
}

func TestHubDifundirReachesClients(t *testing.T) {
	hub := NewHub(4, zerolog.Nop())
	conn := dialHub(t, hub)

	require.Eventually(t, func() bool { return hub.Clientes() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Difundir(ResolucionMensaje{Tipo: "resolucion", Codigo: "ABC", Encontrado: true})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"tipo":"resolucion","codigo":"ABC","encontrado":true}`, string(data))
}

func TestHubSourceFiltersByDevice(t *testing.T) {
	hub := NewHub(4, zerolog.Nop())
	source := NewHubSource(hub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eventos, err := source.Start(ctx, Restricciones{Dispositivo: "pistola-1"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = source.Stop() })

	hub.publicar(Evento{Codigo: "IGN", Dispositivo: "kiosco-2"})
	hub.publicar(Evento{Codigo: "ABC", Dispositivo: "pistola-1"})

	select {
	case ev := <-eventos:
		assert.Equal(t, "ABC", ev.Codigo)
	case <-time.After(2 * time.Second):
		t.Fatal("no filtered event received")
	}
}

func TestHubSourceSingleSubscription(t *testing.T) {
	source := NewHubSource(NewHub(4, zerolog.Nop()))

	_, err := source.Start(context.Background(), Restricciones{})
	require.NoError(t, err)

	_, err = source.Start(context.Background(), Restricciones{})
	assert.ErrorIs(t, err, ErrSourceActiva)

	require.NoError(t, source.Stop())
	require.NoError(t, source.Stop())

	_, err = source.Start(context.Background(), Restricciones{})
	assert.NoError(t, err)
}

type resolutorStub struct {
	producto *model.ProductoConteo
	err      error
}

func (r *resolutorStub) ResolverCodigo(codigo string) (*model.ProductoConteo, error) {
	return r.producto, r.err
}

type difusorStub struct {
	mensajes chan interface{}
}

func (d *difusorStub) Difundir(v interface{}) { d.mensajes <- v }

func runProcesador(t *testing.T, resolutor Resolutor) (*Hub, *difusorStub) {
	t.Helper()
	hub := NewHub(4, zerolog.Nop())
	difusor := &difusorStub{mensajes: make(chan interface{}, 4)}
	p := NewProcesador(NewHubSource(hub), resolutor, difusor, i18n.NewTranslator(), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = p.Run(ctx) }()
	return hub, difusor
}

func esperarResolucion(t *testing.T, difusor *difusorStub) ResolucionMensaje {
	t.Helper()
	select {
	case v := <-difusor.mensajes:
		msg, ok := v.(ResolucionMensaje)
		require.True(t, ok)
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no resolution broadcast")
		return ResolucionMensaje{}
	}
}

func TestProcesadorBroadcastsMatches(t *testing.T) {
	producto := &model.ProductoConteo{ProductoID: 1, Codigo: "ABC", Nombre: "Agua 500ml"}
	hub, difusor := runProcesador(t, &resolutorStub{producto: producto})

	hub.publicar(Evento{Codigo: "ABC", Dispositivo: "pistola-1"})

	msg := esperarResolucion(t, difusor)
	assert.True(t, msg.Encontrado)
	require.NotNil(t, msg.Producto)
	assert.Equal(t, int64(1), msg.Producto.ProductoID)
	assert.Equal(t, "pistola-1", msg.Dispositivo)
}

func TestProcesadorBroadcastsMisses(t *testing.T) {
	hub, difusor := runProcesador(t, &resolutorStub{err: session.ErrCodigoNoEnPlantilla})

	hub.publicar(Evento{Codigo: "ZZZ"})

	msg := esperarResolucion(t, difusor)
	assert.False(t, msg.Encontrado)
	assert.Equal(t, "Este producto no está en la plantilla seleccionada", msg.Mensaje)
}

func TestProcesadorWithoutSession(t *testing.T) {
	hub, difusor := runProcesador(t, &resolutorStub{err: session.ErrSinSesion})

	hub.publicar(Evento{Codigo: "ABC"})

	msg := esperarResolucion(t, difusor)
	assert.False(t, msg.Encontrado)
	assert.Equal(t, "No hay un conteo en progreso", msg.Mensaje)
}

func TestDifundirGuias(t *testing.T) {
	difusor := &difusorStub{mensajes: make(chan interface{}, 4)}
	fallas := make(chan string, 1)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go DifundirGuias(ctx, fallas, difusor, i18n.NewTranslator())

	fallas <- i18n.KeyEscanerOcupado

	select {
	case v := <-difusor.mensajes:
		msg, ok := v.(GuiaMensaje)
		require.True(t, ok)
		assert.Equal(t, "guia", msg.Tipo)
		assert.Equal(t, i18n.KeyEscanerOcupado, msg.Clave)
		assert.Equal(t, "El dispositivo de escaneo está en uso", msg.Mensaje)
	case <-time.After(2 * time.Second):
		t.Fatal("no guidance broadcast")
	}
}
