// Package seed holds the fixed domain catalog installed when the store starts.
package seed

import (
	"time"

	"knowledge_hub/internal/domain"
)

var catalog = []domain.Domain{
	{
		ID:            "embedded-systems",
		Name:          "Embedded Systems",
		Description:   "Bare-metal programming, RTOS, device drivers, bootloaders, and debugging techniques.",
		Icon:          "fas fa-microchip",
		Color:         "blue",
		Progress:      75,
		ArticlesCount: 42,
		ProjectsCount: 8,
	},
	{
		ID:            "ai-ml",
		Name:          "AI & Machine Learning",
		Description:   "TinyML, TensorFlow Lite, deep learning basics, and edge device optimization.",
		Icon:          "fas fa-brain",
		Color:         "purple",
		Progress:      50,
		ArticlesCount: 28,
		ProjectsCount: 5,
	},
	{
		ID:            "operating-systems",
		Name:          "Operating Systems",
		Description:   "Linux kernel internals, Android OS development, iOS/macOS, and RTOS concepts.",
		Icon:          "fas fa-server",
		Color:         "green",
		Progress:      25,
		ArticlesCount: 18,
		ProjectsCount: 3,
	},
	{
		ID:            "hardware-architectures",
		Name:          "Hardware Architectures",
		Description:   "ARM Cortex-M/A, RISC-V, x86, GPU, and parallel processing architectures.",
		Icon:          "fas fa-memory",
		Color:         "red",
		Progress:      100,
		ArticlesCount: 35,
		ProjectsCount: 12,
	},
	{
		ID:            "programming-languages",
		Name:          "Programming Languages",
		Description:   "C, C++, Rust, Python, Shell scripting, and Assembly programming.",
		Icon:          "fas fa-code",
		Color:         "indigo",
		Progress:      75,
		ArticlesCount: 52,
		ProjectsCount: 15,
	},
	{
		ID:            "tools-devops",
		Name:          "Tools & DevOps",
		Description:   "Git, Jenkins, CI/CD, Docker, virtualization, and version control workflows.",
		Icon:          "fas fa-tools",
		Color:         "teal",
		Progress:      50,
		ArticlesCount: 24,
		ProjectsCount: 6,
	},
	{
		ID:            "networking-protocols",
		Name:          "Networking & Protocols",
		Description:   "TCP/UDP, MQTT, HTTP/HTTPS, WiFi, BLE, LoRa, CAN, and automotive protocols.",
		Icon:          "fas fa-network-wired",
		Color:         "cyan",
		Progress:      25,
		ArticlesCount: 19,
		ProjectsCount: 4,
	},
	{
		ID:            "iot-cloud",
		Name:          "IoT & Cloud",
		Description:   "IoT architecture, gateways, edge devices, backend servers, and cloud deployment.",
		Icon:          "fas fa-cloud",
		Color:         "orange",
		Progress:      50,
		ArticlesCount: 22,
		ProjectsCount: 7,
	},
	{
		ID:            "product-development",
		Name:          "Product Development",
		Description:   "Product design, prototyping, testing, validation, and agile development lifecycle.",
		Icon:          "fas fa-rocket",
		Color:         "pink",
		Progress:      25,
		ArticlesCount: 15,
		ProjectsCount: 2,
	},
}

// Domains returns a fresh copy of the catalog, in catalog order, stamped with now.
// The article and project counts are display placeholders and do not correspond to
// seeded records.
func Domains(now time.Time) []domain.Domain {
	out := make([]domain.Domain, len(catalog))
	for i, d := range catalog {
		d.CreatedAt = now
		d.UpdatedAt = now
		out[i] = d
	}
	return out
}
