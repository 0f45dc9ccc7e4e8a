/*
Package fetchmock is a fetch mock registry for tests.

Code under test issues HTTP calls through one of the interception points
(hostmock for Tarmac WebAssembly guests, fetch/mock for the fetch.Client
interface, transport for net/http clients). Each of them forwards the call to a
Registry, which records it and answers with a configured fake response instead
of performing network I/O.

# Registering responses

Registrations are evaluated in registration order; the first whose matcher
accepts the request answers it.

	reg, _ := fetchmock.New(fetchmock.Config{})
	_ = reg.On("GET", "https://api.example.com/users/*").ReturnJSON(200, user)
	_ = reg.On("POST", "/orders").Once().ReturnStatus(201)
	_ = reg.RegisterMatcher(match.MustJSONPath(`.amount > 100`), fetchmock.Fail(errDeclined))

A registration is persistent unless Once or Times is given, in which case it
answers that many calls and then stops matching. Config.DefaultMode flips the
default. Registering the same pattern (or Named key) again replaces the
earlier entry.

# Unmocked calls

A call no registration matches is still recorded, its Promise is rejected with
an *UnmockedError (errors.Is(err, ErrUnmocked) holds), and a warning naming
the call is written to Config.Logger. Unmocked calls never reach the network.

# Lifecycle

Registries are plain values. Create one per test, typically through
fetchtest.New, which resets it and restores any swapped transport in
t.Cleanup.
*/
package fetchmock
