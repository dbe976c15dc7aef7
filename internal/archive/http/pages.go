package http

import (
	"html/template"
	"net/http"
)

// The archive's front-end proper lives elsewhere; these pages are the thin
// HTML shell around the handshake routes. Inline templates keep the whole
// surface greppable in one file.

var loginTmpl = template.Must(template.New("login").Parse(`<!doctype html>
<html>
<head><title>Mysterria Archive - Login</title></head>
<body>
<h1>Sign in with Mysterria</h1>
<p><a href="{{.LoginURL}}" target="mysterria-auth"
      onclick="window.open(this.href, this.target, 'width=500,height=700,scrollbars=yes,resizable=yes'); return false;">
   Continue to Mysterria</a></p>
<p><a href="{{.RegisterURL}}">No account? Register</a></p>
</body>
</html>
`))

var callbackTmpl = template.Must(template.New("callback").Parse(`<!doctype html>
<html>
<head>
<title>Mysterria Archive - Authentication</title>
{{if .Refresh}}<meta http-equiv="refresh" content="{{.Refresh}}">{{end}}
</head>
<body>
{{if eq .State "success"}}
<h1>Authentication successful</h1>
<p>Welcome, {{.Username}}. {{if .Popup}}This window will close shortly.{{else}}Taking you back…{{end}}</p>
{{else if eq .State "invalid_token"}}
<h1>Authentication problem</h1>
<p>{{.Reason}}</p>
<p><a href="/login">Try again</a> · <a href="/">Return home</a></p>
{{else}}
<h1>Authentication failed</h1>
<p>{{.Reason}}</p>
<p><a href="/login">Try again</a> · <a href="/">Return home</a></p>
{{end}}
</body>
</html>
`))

var closerTmpl = template.Must(template.New("closer").Parse(`<!doctype html>
<html>
<head>
<title>Mysterria Archive</title>
{{if not .Done}}<meta http-equiv="refresh" content="0.5;url={{.RefreshURL}}">{{end}}
</head>
<body>
{{if .Done}}
<p>Login complete. You can close this window.</p>
<script>if (window.opener) { try { window.opener.close(); } catch (e) {} } window.close();</script>
{{else}}
<p>Finishing login…</p>
{{end}}
</body>
</html>
`))

func renderHTML(w http.ResponseWriter, status int, tmpl *template.Template, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = tmpl.Execute(w, data)
}
