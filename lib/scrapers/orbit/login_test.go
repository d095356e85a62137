package orbit

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newFakeLoginServer(t *testing.T, username, password string) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/Login.aspx", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			http.SetCookie(w, &http.Cookie{Name: SessionCookieName, Value: "anonymous", Path: "/"})
			fmt.Fprint(w, `<html><body><form>
				<input type="hidden" name="__VIEWSTATE" value="login-vs"/>
				<input type="hidden" name="__EVENTVALIDATION" value="login-ev"/>
				<input name="ctl00$ContentPlaceHolder1$edtUsername"/>
				<input name="ctl00$ContentPlaceHolder1$edtPassword" type="password"/>
			</form></body></html>`)
			return
		}

		require.NoError(t, r.ParseForm())
		require.Equal(t, "login-vs", r.PostFormValue("__VIEWSTATE"))
		require.Equal(t, "login-ev", r.PostFormValue("__EVENTVALIDATION"))

		if r.PostFormValue("ctl00$ContentPlaceHolder1$edtUsername") != username ||
			r.PostFormValue("ctl00$ContentPlaceHolder1$edtPassword") != password {
			fmt.Fprint(w, `<html><body><form>
				<span id="ContentPlaceHolder1_lblError">wrong credentials</span>
				<input type="hidden" name="__VIEWSTATE" value="login-vs-2"/>
			</form></body></html>`)
			return
		}

		http.SetCookie(w, &http.Cookie{Name: SessionCookieName, Value: "authenticated", Path: "/"})
		http.Redirect(w, r, "/Main.aspx", http.StatusFound)
	})
	mux.HandleFunc("/Main.aspx", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body>main</body></html>")
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLogin(t *testing.T) {
	cleanup := telemetrySetup(t)
	defer cleanup()

	srv := newFakeLoginServer(t, "student", "hunter2")

	cookies, err := Login(context.Background(), LoginOptions{
		LoginUrl: srv.URL + "/Login.aspx?ReturnUrl=%2fMain.aspx",
		Username: "student",
		Password: "hunter2",
	})
	require.NoError(t, err)
	require.Equal(t, "authenticated", cookies[SessionCookieName])
	require.Equal(t, PresentationTypeGridView, cookies[PresentationTypeCookieName])
}

func TestLoginWrongCredentials(t *testing.T) {
	cleanup := telemetrySetup(t)
	defer cleanup()

	srv := newFakeLoginServer(t, "student", "hunter2")

	_, err := Login(context.Background(), LoginOptions{
		LoginUrl: srv.URL + "/Login.aspx?ReturnUrl=%2fMain.aspx",
		Username: "student",
		Password: "wrong",
	})
	require.ErrorIs(t, err, LoginFailed)
	require.Contains(t, err.Error(), "wrong credentials")
}

func TestLoginPageWithoutFormState(t *testing.T) {
	cleanup := telemetrySetup(t)
	defer cleanup()

	srv := serveStatic(t, "<html><body>broken</body></html>")

	_, err := Login(context.Background(), LoginOptions{
		LoginUrl: srv.URL + "/Login.aspx",
		Username: "student",
		Password: "hunter2",
	})
	require.ErrorIs(t, err, ErrMalformedDocument)
}
