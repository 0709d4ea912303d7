package consul

import (
	"fmt"
	"strconv"

	consulapi "github.com/hashicorp/consul/api"
)

// NewClient connects to the consul agent at the given address.
func NewClient(address string) (*consulapi.Client, error) {
	cfg := consulapi.DefaultConfig()
	cfg.Address = address
	client, err := consulapi.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create consul client: %w", err)
	}
	return client, nil
}

// RegisterService registers this instance with consul so the gateway can
// discover it. The health check hits the /ping endpoint.
func RegisterService(client *consulapi.Client, name, host, port string) error {
	portInt, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("invalid port %q: %w", port, err)
	}

	registration := &consulapi.AgentServiceRegistration{
		ID:      name + "-" + host + "-" + port,
		Name:    name,
		Address: host,
		Port:    portInt,
		Check: &consulapi.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d/ping", host, portInt),
			Interval:                       "10s",
			Timeout:                        "2s",
			DeregisterCriticalServiceAfter: "1m",
		},
	}

	if err := client.Agent().ServiceRegister(registration); err != nil {
		return fmt.Errorf("failed to register service with consul: %w", err)
	}
	return nil
}
