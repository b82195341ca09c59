// Package imagery resolves background images for quotes through an
// ordered fallback chain.
//
// A Chain first derives a visual scene description from the quote, then
// walks its sources in order until one produces an image URL:
//
//  1. generated: the Imagen model renders the derived scene and the
//     result is stored as a base64 data URI.
//  2. stock: the Pexels library is searched with the derived keywords
//     and the first landscape photo URL is used.
//  3. static: a member of a fixed list of stock image URLs is picked at
//     random. This source never fails, so a chain that ends with it
//     always attaches an image.
//
// Each source failure is logged and swallowed; only the chain running
// out of sources surfaces an error.
package imagery
