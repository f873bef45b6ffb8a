package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"
)

const CrawlerKey = ContextKey("isCrawler")

// Known search engine, social preview and SEO tool user agents, plus
// generic patterns.
var crawlerUserAgents = []string{
	"googlebot", "bingbot", "slurp", "duckduckbot", "baiduspider", "yandexbot",
	"facebookexternalhit", "twitterbot", "linkedinbot", "whatsapp",
	"semrushbot", "ahrefsbot", "mj12bot", "dotbot", "rogerbot",
	"bot", "crawler", "spider", "scraper",
}

// IsCrawlerRequest classifies a request as automated traffic from its
// user agent and header shape. Interactive API clients send an Accept
// header with application/json; crawlers typically do not.
func IsCrawlerRequest(r *http.Request) bool {
	userAgent := strings.ToLower(r.Header.Get("User-Agent"))
	for _, pattern := range crawlerUserAgents {
		if strings.Contains(userAgent, pattern) {
			return true
		}
	}

	accept := r.Header.Get("Accept")
	if accept == "" || accept == "*/*" {
		return true
	}
	if r.Method == http.MethodHead {
		return true
	}
	if strings.Contains(accept, "text/html") && !strings.Contains(accept, "application/json") &&
		r.Header.Get("X-Requested-With") == "" {
		return true
	}
	return false
}

// IsCrawler reports the audience classification attached by
// DetectCrawler.
func IsCrawler(ctx context.Context) bool {
	isCrawler, _ := ctx.Value(CrawlerKey).(bool)
	return isCrawler
}

// DetectCrawler tags the request with its audience classification and
// sets cache headers for automated traffic.
func DetectCrawler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		isCrawler := IsCrawlerRequest(r)
		if isCrawler {
			log.Printf("Crawler detected: %s accessing %s", r.Header.Get("User-Agent"), r.URL.Path)
			w.Header().Set("Cache-Control", "public, max-age=3600, s-maxage=7200")
			w.Header().Set("X-Robots-Tag", "index, follow, noarchive")
			w.Header().Set("Vary", "User-Agent")
		}
		ctx := context.WithValue(r.Context(), CrawlerKey, isCrawler)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
