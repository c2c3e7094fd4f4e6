package auth

// AuthCookieName is the name of the httpOnly cookie that carries the session token.
// This is shared across HTTP middleware and WebSocket upgrade auth.
const AuthCookieName = "casino_token"
