/*
Package mock provides an in-memory fetch.Client backed by a fetchmock.Registry.

Use it when code under test accepts a fetch.Client and waPC payloads are not
of interest. Responses are configured on the registry and every call is
recorded there; unmocked calls fail with a *fetchmock.UnmockedError.
*/
package mock
