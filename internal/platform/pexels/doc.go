// Package pexels implements a minimal client for the Pexels photo
// search API. It backs the stock photo entry of the image fallback
// chain: when image generation fails, a quote's derived keywords are
// searched here and the first photo's landscape URL is used instead.
package pexels
