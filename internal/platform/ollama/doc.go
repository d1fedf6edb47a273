// Package ollama talks to the local inference cluster: a load balancer in
// front of a pool of Ollama-compatible nodes exposing /api/generate.
//
// ClusterClient always tries the load balancer first. When that call fails it
// walks the EndpointPool in round-robin order, probing each node with the
// HealthChecker, and retries the generation once against the first healthy
// node. Health results are never cached.
package ollama
