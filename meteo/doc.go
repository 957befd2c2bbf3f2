// Package meteo provides a Go client library for the MET Norway Location Forecast API.
//
// The client builds a request for a coordinate, identifies itself with the
// mandatory User-Agent, issues a single GET and decodes the GeoJSON answer
// into typed structures. It performs no caching, retries or throttling of its
// own; compose those from the middleware package through WithHTTPClient.
//
// Basic Usage:
//
//	client, err := meteo.NewClient("acme.com/weather support@acme.com")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	resp, err := client.Fetch(ctx, 59.9139, 10.7522) // Oslo
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	for _, step := range resp.Forecast.Properties.Timeseries {
//		if temp := step.GetTemperature(); temp != nil {
//			fmt.Printf("%v %.1f°C\n", step.Time, *temp)
//		}
//	}
//
// Errors are always one of *InvalidIdentityError, *InvalidCoordinateError,
// *TransportError, *APIError or *DeserializationError. Use a type switch,
// errors.As or Kind to tell them apart.
//
// Conditional requests: pass the previous *Response as Params.LastResponse.
// While it has not expired it is returned unchanged; afterwards the request
// carries If-Modified-Since and a 304 answer reuses the previous forecast.
//
// For more information about the API, visit: https://api.met.no/weatherapi/locationforecast/2.0/documentation
package meteo
