// LionaGo - Rate-Limited LLM Orchestration in Go
//
// LionaGo is a library for building conversational LLM applications:
// branching conversations, multi-provider chat services with interval
// token-bucket rate limiting, graph-structured workflows, tool calling
// and snapshot persistence.
//
// # Quick Start
//
// Install the package:
//
//	go get github.com/smallnest/lionago
//
// Basic example:
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//
//		"github.com/smallnest/lionago/provider/openai"
//		"github.com/smallnest/lionago/service"
//		"github.com/smallnest/lionago/session"
//	)
//
//	func main() {
//		svc, _ := openai.New()
//
//		limited := service.NewRateLimitedService(svc)
//		limited.InitEndpoint(context.Background(),
//			service.DefaultEndpointConfig(service.EndpointChat))
//		defer limited.Shutdown()
//
//		sess := session.NewSession(limited)
//		reply, _ := sess.Chat(context.Background(), "Hello!")
//		fmt.Println(reply.Content)
//	}
//
// # Packages
//
//   - core: identified elements, ordered containers (Pile, Progression)
//   - message: chat message primitives and langchaingo conversion
//   - service: rate limiter, queued executor, retry, token estimation
//   - provider: openai, anthropic and langchaingo-backed chat services
//   - session: Branch and Session conversation management
//   - action: tool registration and invocation
//   - graph: directed graphs and flow execution
//   - store: branch snapshot persistence (memory, file, sqlite,
//     postgres, redis)
//   - docs: document loading and chunking
//   - log: pluggable logging (stdlib or kataras/golog)
//
// # Environment Variables
//
//   - OPENAI_API_KEY: key for the openai provider
//   - ANTHROPIC_API_KEY: key for the anthropic provider
//   - BRAVE_API_KEY: key for the web search tool
//
// # Community and Support
//
//   - Documentation: https://pkg.go.dev/github.com/smallnest/lionago
//   - Examples: ./examples directory
//
// # License
//
// This project is licensed under the MIT License.
package lionago // import "github.com/smallnest/lionago"
