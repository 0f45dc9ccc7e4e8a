/*
Package fetchtest wires a fetchmock.Registry into the lifecycle of a test.

New creates a registry per test, sends its diagnostics to t.Logf and resets it
in t.Cleanup. Options install it as http.DefaultTransport for the duration of
the test or fail the test when calls went unmocked or limited registrations
were left unused.

	func TestCheckout(t *testing.T) {
		reg := fetchtest.New(t, fetchtest.Global(), fetchtest.Strict())
		_ = reg.On("POST", "https://payments.test/charge").Once().ReturnStatus(201)

		checkout(t.Context())

		fetchtest.AssertCalled(t, reg, "POST", "https://payments.test/charge")
	}
*/
package fetchtest
