// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package backlight

import "fmt"

// Contraster is a panel with a contrast register, such as the SSD1306.
type Contraster interface {
	SetContrast(level uint8) error
}

// Contrast dims an OLED through its contrast register.
type Contrast struct {
	dev  Contraster
	last int
}

// NewContrast returns an Output writing to dev.
func NewContrast(dev Contraster) *Contrast {
	return &Contrast{dev: dev, last: -1}
}

func (c *Contrast) Set(level uint8) error {
	if int(level) == c.last {
		return nil
	}
	if err := c.dev.SetContrast(level); err != nil {
		return fmt.Errorf("backlight: set contrast %d: %w", level, err)
	}
	c.last = int(level)
	return nil
}
