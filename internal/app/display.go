package app

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/drivetrain_computer/internal/config"
	customlog "github.com/relabs-tech/drivetrain_computer/internal/log"
)

// DisplayData holds the latest pose for the OLED.
type DisplayData struct {
	mu       sync.RWMutex
	pose     PoseMessage
	havePose bool
}

func (d *DisplayData) set(p PoseMessage) {
	d.mu.Lock()
	d.pose = p
	d.havePose = true
	d.mu.Unlock()
}

func (d *DisplayData) snapshot() (PoseMessage, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.pose, d.havePose
}

// RunDisplay shows the pose on an SSD1306 OLED on the default I2C bus.
func RunDisplay(ctx context.Context, cfg *config.Config, logger customlog.Logger) error {
	// Initialize periph
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	bus, err := i2creg.Open("")
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer bus.Close()

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	defer dev.Halt()
	logger.Infof("display: initialized")

	if err := dev.Draw(dev.Bounds(), renderSplash(), image.Point{}); err != nil {
		logger.Warnf("display: error showing splash: %v", err)
	}

	data := &DisplayData{}

	client, err := connectMQTT(cfg.MQTT.Broker, cfg.MQTT.ClientIDDisplay, logger)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	if err := subscribePose(client, cfg.MQTT.TopicPose, logger, data.set); err != nil {
		return err
	}

	ticker := time.NewTicker(time.Duration(cfg.Display.UpdateIntervalMS) * time.Millisecond)
	defer ticker.Stop()

	logger.Infof("display: starting update loop")

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p, ok := data.snapshot()
			if err := dev.Draw(dev.Bounds(), renderPose(p, ok), image.Point{}); err != nil {
				logger.Errorf("display: error updating display: %v", err)
			}
		}
	}
}

func newCanvas() (*image1bit.VerticalLSB, *font.Drawer) {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))
	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}
	return img, drawer
}

func renderPose(p PoseMessage, haveData bool) *image1bit.VerticalLSB {
	img, drawer := newCanvas()

	if !haveData {
		drawer.Dot = fixed.P(0, 26)
		drawer.DrawString("Pose")
		drawer.Dot = fixed.P(0, 39)
		drawer.DrawString("Waiting...")
		return img
	}

	drawer.Dot = fixed.P(0, 13)
	drawer.DrawString(fmt.Sprintf("X: %8.3f m", p.X))

	drawer.Dot = fixed.P(0, 26)
	drawer.DrawString(fmt.Sprintf("Y: %8.3f m", p.Y))

	drawer.Dot = fixed.P(0, 39)
	drawer.DrawString(fmt.Sprintf("H: %8.2f deg", p.Heading))

	drawer.Dot = fixed.P(0, 52)
	drawer.DrawString(fmt.Sprintf("t: %8.1f s", p.Elapsed))

	return img
}

func renderSplash() *image1bit.VerticalLSB {
	img, drawer := newCanvas()

	drawer.Dot = fixed.P(10, 26)
	drawer.DrawString("Drivetrain")

	drawer.Dot = fixed.P(5, 43)
	drawer.DrawString("Waiting for")

	drawer.Dot = fixed.P(25, 56)
	drawer.DrawString("pose")

	return img
}
