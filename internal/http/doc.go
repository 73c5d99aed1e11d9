// Package http exposes the booking service as a JSON API.
//
// All application routes are mounted under /api:
//   - GET /users, GET /users/{id}, POST /users, PUT /users/{id}, DELETE /users/{id}:
//     account management. POST /users is registration. Users are returned without
//     their password.
//   - POST /login: body {"registrationNumber","password"}. Responds with
//     {"success":true,"user",...,"token","expiresAt"} or 401
//     {"success":false,"error":"Invalid credentials"}. The token is also set as the
//     session_token cookie.
//   - GET /resources, GET /resources/{id}, GET /resources/type/{type}, POST /resources,
//     PUT /resources/{id}, DELETE /resources/{id}: the resource catalogue. The type
//     lookup is a case-insensitive substring match.
//   - GET /bookings, GET /bookings/{id}, GET /bookings/user/{userId},
//     GET /bookings/resource/{resourceId}, POST /bookings, PUT /bookings/{id},
//     DELETE /bookings/{id}: reservations. POST denormalizes user and resource
//     names; DELETE returns the cancelled booking.
//   - GET /session, GET /session/bookings: the caller's account and dashboard,
//     resolved from the bearer token or session cookie.
//
// Outside /api the router serves GET /healthz and, when configured, GET /metrics.
// Failures use {"error": "..."} bodies with the messages clients already match on.
package http
