// Package codec provides pluggable parse/serialize pairs for MIME types.
//
// A Codec converts between raw body bytes and structured Go values. The
// package ships codecs for JSON, XML, form-urlencoded, CSV, YAML and a
// passthrough codec used for unregistered content types.
//
// Basic Usage:
//
//	c := codec.JSON{}
//
//	value, err := c.Parse([]byte(`{"name":"John"}`))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	body, _ := c.Serialize(map[string]string{"name": "John"})
//	fmt.Println(string(body)) // {"name":"John"}
//
// Custom codecs implement the Codec interface and are registered with the
// mime package:
//
//	mime.Register("application/vnd.example+msgpack", myCodec)
package codec
