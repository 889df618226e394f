package v1

// ModuleName is the name the module is predeclared under
const ModuleName = "openssl"
