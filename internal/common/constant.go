package common

// AuthorizationHeaderName is the HTTP header used to carry the bearer access
// token on requests to the backend.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token value in the authorization header.
const BearerPrefix = "Bearer "
