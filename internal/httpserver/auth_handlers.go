package httpserver

import (
	"net/http"
	"strings"
	"time"

	"bookstore/bookstore-api/internal/apperr"
	"bookstore/bookstore-api/internal/auth"
)

func registerAuthHandlers(mux *http.ServeMux, deps Deps) {
	guard := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if deps.Auth == nil {
				writeError(w, http.StatusServiceUnavailable, "auth service unavailable")
				return
			}
			next(w, r)
		}
	}

	mux.HandleFunc("POST /auth/register", guard(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
			Email    string `json:"email"`
		}
		if err := decodeBody(r, &req); err != nil {
			respondErr(w, r, deps, err, nil)
			return
		}

		reg, err := deps.Auth.Register(strings.TrimSpace(req.Username), req.Password, strings.TrimSpace(req.Email))
		if err != nil {
			auditReq(deps.Audit, r, req.Username, "auth.register", "", "failed", apperr.Message(err))
			respondErr(w, r, deps, err, nil)
			return
		}
		auditReq(deps.Audit, r, reg.Profile.Username, "auth.register", "", "success", "")
		deps.Logger.InfoContext(r.Context(), "user registered", "username", reg.Profile.Username)

		writeSuccess(w, http.StatusCreated, "User registered successfully", body{
			"user":  reg.Profile,
			"token": reg.Token,
		})
	}))

	mux.HandleFunc("POST /auth/login", guard(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := decodeBody(r, &req); err != nil {
			respondErr(w, r, deps, err, nil)
			return
		}

		res, err := deps.Auth.Login(req.Username, req.Password)
		if err != nil {
			auditReq(deps.Audit, r, req.Username, "auth.login", "", "failed", apperr.Message(err))
			respondErr(w, r, deps, err, nil)
			return
		}
		auditReq(deps.Audit, r, res.Profile.Username, "auth.login", "", "success", "sid="+res.Session.ID)

		http.SetCookie(w, &http.Cookie{
			Name:     auth.SessionCookieName,
			Value:    res.Session.ID,
			Path:     "/",
			Expires:  res.Session.ExpiresAt,
			HttpOnly: true,
			Secure:   deps.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		})
		writeSuccess(w, http.StatusOK, "Login successful", body{
			"user":           res.Profile,
			"token":          res.Token,
			"tokenExpiresAt": res.TokenExpiresAt.UTC().Format(time.RFC3339),
			"sessionId":      res.Session.ID,
		})
	}))

	mux.HandleFunc("POST /auth/logout", guard(func(w http.ResponseWriter, r *http.Request) {
		sid := auth.SessionIDFromRequest(r)
		destroyed := deps.Auth.Logout(sid)

		http.SetCookie(w, &http.Cookie{
			Name:     auth.SessionCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   deps.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		})
		if !destroyed {
			writeSuccess(w, http.StatusOK, "Already logged out", nil)
			return
		}
		auditReq(deps.Audit, r, "", "auth.logout", "", "success", "sid="+sid)
		writeSuccess(w, http.StatusOK, "Logout successful", nil)
	}))

	mux.HandleFunc("GET /auth/me", requireIdentity(deps, func(w http.ResponseWriter, r *http.Request, id auth.Identity) {
		writeSuccess(w, http.StatusOK, "User session active", body{
			"user":      id,
			"sessionId": id.SessionID,
		})
	}))

	mux.HandleFunc("POST /auth/verify-token", guard(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Token string `json:"token"`
		}
		if err := decodeBody(r, &req); err != nil {
			respondErr(w, r, deps, err, nil)
			return
		}
		if strings.TrimSpace(req.Token) == "" {
			respondErr(w, r, deps, apperr.Validation("Token is required"), nil)
			return
		}
		claims, err := deps.Auth.VerifyToken(strings.TrimSpace(req.Token))
		if err != nil {
			respondErr(w, r, deps, err, nil)
			return
		}
		writeSuccess(w, http.StatusOK, "Token is valid", body{"decoded": claims})
	}))

	mux.HandleFunc("GET /auth/check-username/{username}", guard(func(w http.ResponseWriter, r *http.Request) {
		username := r.PathValue("username")
		if deps.Auth.UsernameAvailable(username) {
			writeSuccess(w, http.StatusOK, "Username is available", body{"available": true})
			return
		}
		writeSuccess(w, http.StatusOK, "Username is already taken", body{"available": false})
	}))

	mux.HandleFunc("GET /auth/stats", requireAdmin(deps, func(w http.ResponseWriter, r *http.Request, _ auth.Identity) {
		if deps.Auth == nil {
			writeError(w, http.StatusServiceUnavailable, "auth service unavailable")
			return
		}
		writeSuccess(w, http.StatusOK, "Registration statistics retrieved", body{"stats": deps.Auth.Stats()})
	}))
}
