/*
Package hostmock provides a pretend Tarmac host for waPC calls.

It stands in for wapc.HostCall so guest code can be tested without a running
host. Routing (namespace, capability, function) is validated for the fields you
set, payloads can be inspected with a PayloadValidator, and httpclient calls
can be answered from a fetchmock.Registry.

Quick start

	reg := fetchtest.New(t)
	_ = reg.On("GET", "https://api.example.com/users/1").ReturnJSON(200, user)

	client, _ := fetch.New(fetch.Config{HostCall: hostmock.ForRegistry(reg).HostCall})
	resp, err := client.Get("https://api.example.com/users/1")

Behavior

  - If Fail is true and Error is set, HostCall returns that error.
  - If Fail is true and Error is nil, HostCall returns ErrOperationFailed.
  - Otherwise HostCall enforces ExpectedNamespace/Capability/Function when set
    and runs PayloadValidator when provided.
  - Response, when set, provides the raw return bytes.
  - Otherwise Registry, when set, answers the decoded HTTPClient request. An
    unmocked call is encoded with host status 404 and the *fetchmock.UnmockedError
    is returned alongside it; a handler error uses host status 500.
  - With neither, HostCall returns nil.

Leave routing fields blank when you want a wildcard.
*/
package hostmock
