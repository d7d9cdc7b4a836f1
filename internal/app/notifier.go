package app

// Notifier surfaces the outcome of a controller operation to the user
type Notifier interface {
	Success(msg string)
	Error(msg string)
	Info(msg string)
}

// NopNotifier discards every message
type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Error(string)   {}
func (NopNotifier) Info(string)    {}

// Option configures a Controller
type Option func(*Controller)

// WithNotifier routes operation messages to n
func WithNotifier(n Notifier) Option {
	return func(c *Controller) {
		if n != nil {
			c.notify = n
		}
	}
}

// WithOnChange registers fn to run after every successful mutation
func WithOnChange(fn func()) Option {
	return func(c *Controller) {
		c.onChange = fn
	}
}

// WithDefaultColor sets the color used when a project is created without one
func WithDefaultColor(color string) Option {
	return func(c *Controller) {
		if color != "" {
			c.defaultColor = color
		}
	}
}
