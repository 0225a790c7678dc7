package config_test

import (
	"errors"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/ayusman/hastaview/internal/config"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given the default config", t, func() {
		cfg := config.New()

		convey.Convey("Then the gesture tunables match the stock tuning", func() {
			convey.So(cfg.Gesture.ZoomThreshold, convey.ShouldEqual, 50)
			convey.So(cfg.Gesture.PanThreshold, convey.ShouldEqual, 80)
			convey.So(cfg.Gesture.ZoomGain, convey.ShouldEqual, 0.05)
			convey.So(cfg.Gesture.SmoothingFactor, convey.ShouldEqual, 0.2)
			convey.So(cfg.Gesture.MinScale, convey.ShouldEqual, 0.2)
			convey.So(cfg.Gesture.MaxScale, convey.ShouldEqual, 5.0)
		})

		convey.Convey("Then the camera is mirrored and the optional parts are off", func() {
			convey.So(cfg.Camera.Mirror, convey.ShouldBeTrue)
			convey.So(cfg.ShowCamera, convey.ShouldBeTrue)
			convey.So(cfg.Server.Addr, convey.ShouldBeEmpty)
			convey.So(cfg.Store.Path, convey.ShouldBeEmpty)
			convey.So(cfg.Motion.Enabled, convey.ShouldBeFalse)
		})

		convey.Convey("Then it is invalid until an image is set", func() {
			err := cfg.Validate()
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)

			cfg.Image = "photo.jpg"
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a valid config", t, func() {
		cfg := config.New()
		cfg.Image = "photo.jpg"

		convey.Convey("When the thresholds leave no hysteresis gap", func() {
			cfg.Gesture.PanThreshold = cfg.Gesture.ZoomThreshold

			convey.Convey("Then validation fails", func() {
				err := cfg.Validate()
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "pan_threshold")
			})
		})

		convey.Convey("When the log level is unknown", func() {
			cfg.LogLevel = "loud"

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the detector config is broken", func() {
			cfg.Detector.MaxHands = 0

			convey.Convey("Then validation fails for live capture", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})

			convey.Convey("Then it is ignored in replay mode", func() {
				cfg.Replay = "session.json"
				convey.So(cfg.Validate(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When the server is enabled with a bad JPEG quality", func() {
			cfg.Server.Addr = ":8090"
			cfg.Server.JPEGQuality = 0

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}
