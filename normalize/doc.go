// Package normalize classifies arbitrary error values by their shape and
// converts them into a single canonical record.
//
// Three shapes are recognized, checked in this order:
//
//   - transport: an error that carries request, options and a response or
//     status, such as the *httpclient.FetchError returned for a failed call.
//   - framework: an error that carries statusCode or status, such as
//     *errors.AppError.
//   - generic: any other error value.
//
// Shapes are detected structurally. A field is found on a map[string]any by
// key, on a struct by json tag or (case-insensitive) Go field name, or through
// a zero-argument method named after the field. No type needs to be
// registered for its values to be classified.
//
// # Usage
//
//	n, err := normalize.Normalize(raw)
//	if err != nil {
//	    // raw matched no known shape; err carries raw unchanged
//	    v, _ := normalize.RawValue(err)
//	}
//	fmt.Println(n.StatusCode, n.StatusMessage)
package normalize
