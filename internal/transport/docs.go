// package transport contains the wire side of the engine: the outbound [Sink]
// capability, the request head serializer and the response head tokenizer.
//
// Message syntax follows HTTP/1.1 (RFC9112). Nothing here allocates per message:
// the serializer formats into a caller owned buffer and the tokenizer returns
// sub-slices of the bytes it was given.
//
// Header name validation reuses [golang.org/x/net/http/httpguts].

package transport
