package protect

// Default configuration sources. The globals are always consulted; the
// user files are resolved under the invoking user's home directory.
const (
	GlobalConfig      = "/etc/safe-rm.conf"
	LocalGlobalConfig = "/usr/local/etc/safe-rm.conf"
	UserConfig        = ".config/safe-rm"
	LegacyUserConfig  = ".safe-rm"
)

// DefaultPaths is the protected set used when no configuration source
// yields any path. An explicit list, not computed: these are the
// top-level directories no rm invocation should ever take out.
var DefaultPaths = []string{
	"/bin",
	"/boot",
	"/dev",
	"/etc",
	"/home",
	"/initrd",
	"/lib",
	"/lib32",
	"/lib64",
	"/proc",
	"/root",
	"/sbin",
	"/sys",
	"/usr",
	"/usr/bin",
	"/usr/include",
	"/usr/lib",
	"/usr/local",
	"/usr/local/bin",
	"/usr/local/include",
	"/usr/local/sbin",
	"/usr/local/share",
	"/usr/sbin",
	"/usr/share",
	"/usr/src",
	"/var",
}
