package orbit

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateSessionOk(t *testing.T) {
	portal := newFakePortal(t, fivePages())
	srv := portal.serve()
	client := newTestClient(t, srv.URL)

	require.NoError(t, client.ValidateSession(context.Background()))
}

func TestValidateSessionLoginMarkerInBody(t *testing.T) {
	// the portal serves the login page with a 200 to expired sessions
	srv := serveStatic(t, `<html><body><form>
		<input name="ctl00$ContentPlaceHolder1$edtUsername"/>
		<input name="ctl00$ContentPlaceHolder1$edtPassword" type="password"/>
	</form></body></html>`)
	client := newTestClient(t, srv.URL)

	err := client.ValidateSession(context.Background())
	require.ErrorIs(t, err, ErrInvalidSession)
}

func TestValidateSessionRedirectToLogin(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/Login.aspx", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body>please login</body></html>")
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/Login.aspx?ReturnUrl=%2fMain.aspx", http.StatusFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := newTestClient(t, srv.URL+"/Main.aspx")
	err := client.ValidateSession(context.Background())
	require.ErrorIs(t, err, ErrInvalidSession)
}
