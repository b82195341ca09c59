package imagery

import (
	"context"

	"github.com/samber/lo"

	"github.com/phrazzld/sophia-api/internal/domain"
	"github.com/phrazzld/sophia-api/internal/generation"
)

// defaultStaticImageURLs is the built-in last resort: a fixed set of
// calm landscape photos that work behind any quote.
var defaultStaticImageURLs = []string{
	"https://images.pexels.com/photos/1323550/pexels-photo-1323550.jpeg?auto=compress&cs=tinysrgb&w=1200",
	"https://images.pexels.com/photos/417074/pexels-photo-417074.jpeg?auto=compress&cs=tinysrgb&w=1200",
	"https://images.pexels.com/photos/36717/amazing-animal-beautiful-beautifull.jpg?auto=compress&cs=tinysrgb&w=1200",
	"https://images.pexels.com/photos/158163/clouds-cloudporn-weather-lookup-158163.jpeg?auto=compress&cs=tinysrgb&w=1200",
	"https://images.pexels.com/photos/462162/pexels-photo-462162.jpeg?auto=compress&cs=tinysrgb&w=1200",
	"https://images.pexels.com/photos/1287145/pexels-photo-1287145.jpeg?auto=compress&cs=tinysrgb&w=1200",
	"https://images.pexels.com/photos/355465/pexels-photo-355465.jpeg?auto=compress&cs=tinysrgb&w=1200",
	"https://images.pexels.com/photos/2387873/pexels-photo-2387873.jpeg?auto=compress&cs=tinysrgb&w=1200",
}

// staticSource picks a random member of a fixed URL list. It never
// fails and terminates the chain.
type staticSource struct {
	urls []string
}

// NewStaticSource creates the chain's last resort entry. When no URLs
// are given the built-in list is used.
func NewStaticSource(urls ...string) Source {
	if len(urls) == 0 {
		urls = defaultStaticImageURLs
	}

	return &staticSource{urls: urls}
}

func (s *staticSource) Name() domain.ImageSource {
	return domain.ImageSourceFallback
}

func (s *staticSource) Resolve(
	ctx context.Context,
	quote *domain.Quote,
	prompt *generation.ImagePrompt,
) (string, error) {
	return lo.Sample(s.urls), nil
}
