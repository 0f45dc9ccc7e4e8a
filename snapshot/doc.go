/*
Package snapshot compares recorded fetch calls with reference values.

Render turns recorded calls into stable text (no IDs or timestamps, sorted
headers, canonical JSON bodies), which can then be checked inline against a
string in the test source or against a file under testdata/.

	snapshot.Inline(t, snapshot.Render(reg.Calls()), `
		#1 POST https://api.example.com/orders
		  Content-Type: application/json
		  body: {"amount":3}
		  -> POST https://api.example.com/orders
	`)

Set FETCHMOCK_UPDATE_SNAPSHOTS=1 to rewrite snapshot files.
*/
package snapshot
