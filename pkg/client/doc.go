// Package client implements the GraphQL transport to a chain node. It covers
// the four operations the binding layer needs (composeTransaction, built
// client-side from the latest block height, plus queryService,
// sendTransaction and getReceipt) and block header reads.
//
// # Quick use
//
//	cfg := &config.Config{Endpoint: "http://localhost:8000/graphql"}
//	_ = cfg.Validate()
//	c := client.NewClient(cfg)
//
//	resp, err := c.QueryServiceDyn(ctx, types.QueryServiceParam{
//		ServiceName: "metadata",
//		Method:      "get_metadata",
//		Payload:     "",
//	})
//
// # Error policy
//
// Transport failures are logged here (the diagnostic boundary) and returned
// wrapped with the failing operation's name; nothing is retried. A query
// response with isError set is not a transport failure and is returned to
// the caller for interpretation.
package client
