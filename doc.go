// Package netreq is a thin HTTP client: describe a request, send it and get
// back either a decoded value or one error from a small closed taxonomy.
//
// # Quick Start
//
//	client, err := netreq.New(netreq.WithTimeout(10 * time.Second))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	type user struct {
//	    Name string `json:"name"`
//	}
//
//	u, err := netreq.Fetch[user](ctx, client, netreq.NewGET("https://api.example.com/users/1", nil))
//	switch {
//	case errors.Is(err, netreq.ErrNetworkUnavailable):
//	    // offline
//	case err != nil:
//	    // see netreq.AsError for the details
//	}
//
// # Request Descriptors
//
// A Descriptor names the URL, method, headers and parameters of a request.
// Parameters are one of:
//
//   - Plain(): no body, no query
//   - QueryItems(map): appended to the URL query, keys sorted
//   - JSON(model): the model encoded as the JSON body
//   - Body(map): a JSON object body, validated before encoding
//
// JSON and Body requests get Content-Type: application/json unless the
// caller set a Content-Type header.
//
// # Outcome Classification
//
// Each call delivers exactly one result. The transport outcome is checked in
// this order:
//
//  1. a transport error: NetworkUnavailable when the device is offline,
//     Request otherwise
//  2. no HTTP response: InvalidHTTPResponse
//  3. an empty body: EmptyData, whatever the status
//  4. status 400-499: SerializedError carrying the body and status
//  5. status 200-299: success, decoded into the target type
//  6. anything else: Unknown
//
// # Asynchronous Use
//
// Execute and Client.Perform take a completion callback instead of
// blocking. The callback runs exactly once, on the transport's goroutine.
//
// # Thread Safety
//
// Client is safe for concurrent use.
package netreq
