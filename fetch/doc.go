/*
Package fetch is the guest-side HTTP client for Tarmac WebAssembly functions.

Requests are encoded as protobuf HTTPClient payloads and sent to the host
through the waPC "httpclient" capability. In tests the host function is
swapped for hostmock.Mock, whose HostCall answers from a fetchmock.Registry,
or the whole client is replaced with fetch/mock.

	client, _ := fetch.New(fetch.Config{})
	resp, err := client.Fetch("https://api.example.com/users/1", nil)
	if err != nil {
		return err
	}
	var user User
	err = resp.JSON(&user)
*/
package fetch
